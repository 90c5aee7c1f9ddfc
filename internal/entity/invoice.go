package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts JSON strings and numbers alike; providers disagree on
// whether identifiers like invoice or customer numbers are quoted. Numbers
// are kept verbatim as their decimal text and always marshal back as strings.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*s = FlexString(t)
	case json.Number:
		*s = FlexString(t.String())
	default:
		return fmt.Errorf("identifier must be a string or number, got %T", v)
	}
	return nil
}

// Invoice is the canonical extracted representation of one energy invoice.
//
// Every model-fillable field is a pointer serialized WITHOUT omitempty:
// a field the model could not determine is an explicit JSON null, never an
// absent key, because downstream consumers expect the full key set. Model
// nulls are propagated verbatim at every stage; no field is backfilled.
// Unexpected model fields survive round-trips through the Extra sideband.
type Invoice struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`

	Provider      *string     `json:"provider"`
	InvoiceNumber *FlexString `json:"invoice_number"`
	IssueDate     *string     `json:"issue_date"` // YYYY-MM-DD
	DueDate       *string     `json:"due_date"`
	CustomerName  *string     `json:"customer_name"`
	CustomerID    *FlexString `json:"customer_id"`
	TotalAmount   *float64    `json:"total_amount"`

	// Consumption block. Flat keys to match the extraction prompt contract.
	PeriodStart *string  `json:"period_start"`
	PeriodEnd   *string  `json:"period_end"`
	TotalKWh    *float64 `json:"total_kwh"`
	RatePerKWh  *float64 `json:"rate_per_kwh"`
	PeakKWh     *float64 `json:"peak_kwh"`
	OffPeakKWh  *float64 `json:"off_peak_kwh"`

	Items []LineItem         `json:"items"`
	Taxes map[string]float64 `json:"taxes"`

	// Extra carries model fields outside the contract, passed through as-is.
	Extra map[string]any `json:"-"`
}

// LineItem is one charge row from the invoice's consumption/services table.
// Quantities and prices are unchecked numerics supplied by the model.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       *float64 `json:"total"`
}

// invoiceKnownKeys mirrors the json tags above; anything else lands in Extra.
var invoiceKnownKeys = map[string]struct{}{
	"id": {}, "file_path": {},
	"provider": {}, "invoice_number": {}, "issue_date": {}, "due_date": {},
	"customer_name": {}, "customer_id": {}, "total_amount": {},
	"period_start": {}, "period_end": {}, "total_kwh": {}, "rate_per_kwh": {},
	"peak_kwh": {}, "off_peak_kwh": {}, "items": {}, "taxes": {},
}

type invoiceAlias Invoice

func (inv Invoice) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(invoiceAlias(inv))
	if err != nil {
		return nil, err
	}
	if len(inv.Extra) == 0 {
		return base, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range inv.Extra {
		if _, known := invoiceKnownKeys[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

func (inv *Invoice) UnmarshalJSON(data []byte) error {
	var a invoiceAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k := range invoiceKnownKeys {
		delete(m, k)
	}
	if len(m) > 0 {
		a.Extra = m
	}
	*inv = Invoice(a)
	return nil
}

// Summary is the reduced projection returned by invoice listings.
type Summary struct {
	ID            string      `json:"id"`
	Provider      *string     `json:"provider"`
	InvoiceNumber *FlexString `json:"invoice_number"`
	IssueDate     *string     `json:"issue_date"`
	CustomerName  *string     `json:"customer_name"`
	TotalAmount   *float64    `json:"total_amount"`
	PeriodStart   *string     `json:"period_start"`
	PeriodEnd     *string     `json:"period_end"`
	TotalKWh      *float64    `json:"total_kwh"`
}

// Summarize projects the invoice onto its listing view.
func (inv *Invoice) Summarize() Summary {
	return Summary{
		ID:            inv.ID,
		Provider:      inv.Provider,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate,
		CustomerName:  inv.CustomerName,
		TotalAmount:   inv.TotalAmount,
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		TotalKWh:      inv.TotalKWh,
	}
}
