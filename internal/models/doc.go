// Package models defines the core domain models for QuickSplit.
//
// # Models
//
//   - Participant: a person in the split group
//   - Expense: a cost paid by one participant and shared equally by a subset
//   - Settlement: a proposed transfer from a debtor to a creditor
//   - Split: the caller-owned state holding participants and expenses
//
// Balances and settlements are never stored. They are recomputed from a Split
// by the calculator package every time they are needed.
//
// # Design Principles
//
// 1. **Value results**: Settlement is a plain value; nothing in this package mutates it
// 2. **IDs over pointers**: Expenses reference participants by ID string
// 3. **Insertion order matters**: People and Expenses keep the order they were added in,
// because settlement output order depends on it
package models
