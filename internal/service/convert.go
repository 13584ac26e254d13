package service

import (
	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/pkg/api"
)

func toAPIParticipant(p models.Participant) api.Participant {
	return api.Participant{ID: p.ID, Name: p.Name}
}

func toAPIExpense(e models.Expense) api.Expense {
	return api.Expense{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   e.Amount,
		PaidBy:   e.PaidBy,
		SharedBy: e.SharedBy,
	}
}

func toAPISplit(split *models.Split) api.Split {
	out := api.Split{
		ID:        split.ID,
		People:    make([]api.Participant, len(split.People)),
		Expenses:  make([]api.Expense, len(split.Expenses)),
		CreatedAt: split.CreatedAt,
	}
	for i, p := range split.People {
		out.People[i] = toAPIParticipant(p)
	}
	for i, e := range split.Expenses {
		out.Expenses[i] = toAPIExpense(e)
	}
	return out
}

func toAPISettlement(split *models.Split, s models.Settlement) api.Settlement {
	return api.Settlement{
		From:     s.From,
		FromName: split.PersonName(s.From),
		To:       s.To,
		ToName:   split.PersonName(s.To),
		Amount:   s.Amount,
	}
}
