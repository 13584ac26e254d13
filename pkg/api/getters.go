package api

// SplitScoped is implemented by every request that targets an existing split.
type SplitScoped interface {
	GetSplitID() string
}

func (r *GetSplitRequest) GetSplitID() string          { return r.SplitID }
func (r *DeleteSplitRequest) GetSplitID() string       { return r.SplitID }
func (r *ResetSplitRequest) GetSplitID() string        { return r.SplitID }
func (r *AddParticipantRequest) GetSplitID() string    { return r.SplitID }
func (r *RemoveParticipantRequest) GetSplitID() string { return r.SplitID }
func (r *AddExpenseRequest) GetSplitID() string        { return r.SplitID }
func (r *RemoveExpenseRequest) GetSplitID() string     { return r.SplitID }
func (r *GetResultsRequest) GetSplitID() string        { return r.SplitID }
func (r *ShareResultsRequest) GetSplitID() string      { return r.SplitID }
