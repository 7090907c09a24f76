package store

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SyncCheckpoint is the single bookkeeping row per data source: the upper
// bound of the last successfully synchronized window.
type SyncCheckpoint struct {
	Source     string    `db:"source" json:"source"`
	LastSyncAt time.Time `db:"last_sync_at" json:"last_sync_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Category represents the 'omie_categories' table (ERP chart of accounts).
type Category struct {
	OmieCode  string    `db:"omie_code" json:"omie_code"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"`
	Inactive  bool      `db:"inactive" json:"inactive"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Party represents the 'omie_parties' table: an ERP-registered person or
// company acting as investor or supplier.
type Party struct {
	OmieCode  int64     `db:"omie_code" json:"omie_code"`
	Name      string    `db:"name" json:"name"`
	CpfCnpj   string    `db:"cpf_cnpj" json:"cpf_cnpj"`
	Email     string    `db:"email" json:"email"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Project represents the 'omie_projects' table. Movements join on the
// internal code; the name joins to business-facing operations.
type Project struct {
	OmieInternalCode int64     `db:"omie_internal_code" json:"omie_internal_code"`
	OmieCode         string    `db:"omie_code" json:"omie_code"`
	Name             string    `db:"name" json:"name"`
	Inactive         bool      `db:"inactive" json:"inactive"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Payable represents the 'omie_payables' table (accounts-payable titles).
type Payable struct {
	OmieEntryCode  int64           `db:"omie_entry_code" json:"omie_entry_code"`
	ClientCode     int64           `db:"client_code" json:"client_code"`
	ProjectCode    int64           `db:"project_code" json:"project_code"`
	CategoryCode   string          `db:"category_code" json:"category_code"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Status         string          `db:"status" json:"status"`
	IssueDate      *time.Time      `db:"issue_date" json:"issue_date"`
	DueDate        *time.Time      `db:"due_date" json:"due_date"`
	PaymentDate    *time.Time      `db:"payment_date" json:"payment_date"`
	DocumentNumber string          `db:"document_number" json:"document_number"`
	RawPayload     json.RawMessage `db:"raw_payload" json:"-"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Movement represents the 'omie_movements' table, one ledger line from the
// ERP's financial-movements listing.
//
// Amount is canonicalized at ingestion to a non-negative magnitude; the
// debit/credit direction is carried solely by Nature ("p" = payable).
type Movement struct {
	CodMovCC     string          `db:"cod_mov_cc" json:"cod_mov_cc"`
	MfKey        string          `db:"mf_key" json:"mf_key"`
	EntryType    string          `db:"tp_lancamento" json:"tp_lancamento"`
	Nature       string          `db:"natureza" json:"natureza"`
	ClientCode   int64           `db:"cod_cliente" json:"cod_cliente"`
	ProjectCode  int64           `db:"cod_projeto" json:"cod_projeto"`
	CategoryCode string          `db:"cod_categoria" json:"cod_categoria"`
	Amount       decimal.Decimal `db:"valor" json:"valor"`
	IssueDate    *time.Time      `db:"dt_emissao" json:"dt_emissao"`
	DueDate      *time.Time      `db:"dt_venc" json:"dt_venc"`
	PaymentDate  *time.Time      `db:"dt_pagamento" json:"dt_pagamento"`
	Status       string          `db:"status" json:"status"`
	Description  string          `db:"descricao" json:"descricao"`
	RawPayload   json.RawMessage `db:"raw_payload" json:"-"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Operation represents the 'operations' table, the spreadsheet-sourced
// business entity investors actually see. The sync engine only writes it
// through the spreadsheet import; everything else consumes it as a join
// target keyed by name.
type Operation struct {
	ID              int64           `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Status          string          `db:"status" json:"status"`
	City            string          `db:"city" json:"city"`
	State           string          `db:"state" json:"state"`
	StartDate       *time.Time      `db:"start_date" json:"start_date"`
	ExpectedEndDate *time.Time      `db:"expected_end_date" json:"expected_end_date"`
	DocumentsURL    string          `db:"documents_url" json:"documents_url"`
	ExpectedROI     decimal.Decimal `db:"expected_roi" json:"expected_roi"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}
