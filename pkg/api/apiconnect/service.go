// Package apiconnect wires the quicksplit.v1.SplitService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/quicksplit/pkg/api"
)

// SplitServiceName is the fully-qualified name of the SplitService service.
const SplitServiceName = "quicksplit.v1.SplitService"

// Procedure paths of the SplitService RPCs.
const (
	SplitServiceCreateSplitProcedure       = "/quicksplit.v1.SplitService/CreateSplit"
	SplitServiceGetSplitProcedure          = "/quicksplit.v1.SplitService/GetSplit"
	SplitServiceDeleteSplitProcedure       = "/quicksplit.v1.SplitService/DeleteSplit"
	SplitServiceResetSplitProcedure        = "/quicksplit.v1.SplitService/ResetSplit"
	SplitServiceAddParticipantProcedure    = "/quicksplit.v1.SplitService/AddParticipant"
	SplitServiceRemoveParticipantProcedure = "/quicksplit.v1.SplitService/RemoveParticipant"
	SplitServiceAddExpenseProcedure        = "/quicksplit.v1.SplitService/AddExpense"
	SplitServiceRemoveExpenseProcedure     = "/quicksplit.v1.SplitService/RemoveExpense"
	SplitServiceGetResultsProcedure        = "/quicksplit.v1.SplitService/GetResults"
	SplitServiceShareResultsProcedure      = "/quicksplit.v1.SplitService/ShareResults"
)

// SplitServiceHandler is implemented by the server side of SplitService.
type SplitServiceHandler interface {
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	DeleteSplit(context.Context, *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error)
	ResetSplit(context.Context, *connect.Request[api.ResetSplitRequest]) (*connect.Response[api.ResetSplitResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	GetResults(context.Context, *connect.Request[api.GetResultsRequest]) (*connect.Response[api.GetResultsResponse], error)
	ShareResults(context.Context, *connect.Request[api.ShareResultsRequest]) (*connect.Response[api.ShareResultsResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SplitServiceCreateSplitProcedure, connect.NewUnaryHandler(SplitServiceCreateSplitProcedure, svc.CreateSplit, opts...))
	mux.Handle(SplitServiceGetSplitProcedure, connect.NewUnaryHandler(SplitServiceGetSplitProcedure, svc.GetSplit, opts...))
	mux.Handle(SplitServiceDeleteSplitProcedure, connect.NewUnaryHandler(SplitServiceDeleteSplitProcedure, svc.DeleteSplit, opts...))
	mux.Handle(SplitServiceResetSplitProcedure, connect.NewUnaryHandler(SplitServiceResetSplitProcedure, svc.ResetSplit, opts...))
	mux.Handle(SplitServiceAddParticipantProcedure, connect.NewUnaryHandler(SplitServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(SplitServiceRemoveParticipantProcedure, connect.NewUnaryHandler(SplitServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(SplitServiceAddExpenseProcedure, connect.NewUnaryHandler(SplitServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(SplitServiceRemoveExpenseProcedure, connect.NewUnaryHandler(SplitServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...))
	mux.Handle(SplitServiceGetResultsProcedure, connect.NewUnaryHandler(SplitServiceGetResultsProcedure, svc.GetResults, opts...))
	mux.Handle(SplitServiceShareResultsProcedure, connect.NewUnaryHandler(SplitServiceShareResultsProcedure, svc.ShareResults, opts...))

	return "/" + SplitServiceName + "/", mux
}

// SplitServiceClient is a client for SplitService.
type SplitServiceClient interface {
	SplitServiceHandler
}

type splitServiceClient struct {
	createSplit       *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	getSplit          *connect.Client[api.GetSplitRequest, api.GetSplitResponse]
	deleteSplit       *connect.Client[api.DeleteSplitRequest, api.DeleteSplitResponse]
	resetSplit        *connect.Client[api.ResetSplitRequest, api.ResetSplitResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense     *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	getResults        *connect.Client[api.GetResultsRequest, api.GetResultsResponse]
	shareResults      *connect.Client[api.ShareResultsRequest, api.ShareResultsResponse]
}

// NewSplitServiceClient constructs a client for the SplitService served at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	return &splitServiceClient{
		createSplit:       connect.NewClient[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL+SplitServiceCreateSplitProcedure, opts...),
		getSplit:          connect.NewClient[api.GetSplitRequest, api.GetSplitResponse](httpClient, baseURL+SplitServiceGetSplitProcedure, opts...),
		deleteSplit:       connect.NewClient[api.DeleteSplitRequest, api.DeleteSplitResponse](httpClient, baseURL+SplitServiceDeleteSplitProcedure, opts...),
		resetSplit:        connect.NewClient[api.ResetSplitRequest, api.ResetSplitResponse](httpClient, baseURL+SplitServiceResetSplitProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+SplitServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+SplitServiceRemoveParticipantProcedure, opts...),
		addExpense:        connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+SplitServiceAddExpenseProcedure, opts...),
		removeExpense:     connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](httpClient, baseURL+SplitServiceRemoveExpenseProcedure, opts...),
		getResults:        connect.NewClient[api.GetResultsRequest, api.GetResultsResponse](httpClient, baseURL+SplitServiceGetResultsProcedure, opts...),
		shareResults:      connect.NewClient[api.ShareResultsRequest, api.ShareResultsResponse](httpClient, baseURL+SplitServiceShareResultsProcedure, opts...),
	}
}

func (c *splitServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	return c.deleteSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ResetSplit(ctx context.Context, req *connect.Request[api.ResetSplitRequest]) (*connect.Response[api.ResetSplitResponse], error) {
	return c.resetSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *splitServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *splitServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *splitServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetResults(ctx context.Context, req *connect.Request[api.GetResultsRequest]) (*connect.Response[api.GetResultsResponse], error) {
	return c.getResults.CallUnary(ctx, req)
}

func (c *splitServiceClient) ShareResults(ctx context.Context, req *connect.Request[api.ShareResultsRequest]) (*connect.Response[api.ShareResultsResponse], error) {
	return c.shareResults.CallUnary(ctx, req)
}
