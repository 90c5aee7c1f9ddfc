package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestInvoiceMarshal_NullFieldsKeepTheirKeys(t *testing.T) {
	t.Parallel()

	inv := Invoice{
		ID:       "abc",
		Provider: strPtr("Acme Power"),
	}
	b, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, key := range []string{`"due_date":null`, `"total_amount":null`, `"off_peak_kwh":null`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled invoice missing %s:\n%s", key, s)
		}
	}
}

func TestInvoiceRoundTrip_ExtraFieldsSurvive(t *testing.T) {
	t.Parallel()

	in := `{
		"id": "abc",
		"file_path": "/tmp/f.pdf",
		"provider": "Acme Power",
		"invoice_number": null,
		"issue_date": null,
		"due_date": null,
		"customer_name": null,
		"customer_id": null,
		"total_amount": 150.75,
		"period_start": null,
		"period_end": null,
		"total_kwh": 1200,
		"rate_per_kwh": null,
		"peak_kwh": null,
		"off_peak_kwh": null,
		"items": null,
		"taxes": null,
		"meter_serial": "M-0099",
		"contract_type": "C5"
	}`

	var inv Invoice
	if err := json.Unmarshal([]byte(in), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if inv.Extra["meter_serial"] != "M-0099" {
		t.Fatalf("extra field lost: %+v", inv.Extra)
	}
	if _, known := inv.Extra["provider"]; known {
		t.Errorf("known key leaked into Extra: %+v", inv.Extra)
	}

	out, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if m["meter_serial"] != "M-0099" || m["contract_type"] != "C5" {
		t.Errorf("extra fields dropped on remarshal: %s", out)
	}
	if m["provider"] != "Acme Power" {
		t.Errorf("provider = %v", m["provider"])
	}
}

func TestInvoiceUnmarshal_NumericIdentifiers(t *testing.T) {
	t.Parallel()

	in := `{"invoice_number": 2024001, "customer_id": 889, "provider": "Acme Power"}`
	var inv Invoice
	if err := json.Unmarshal([]byte(in), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if inv.InvoiceNumber == nil || *inv.InvoiceNumber != "2024001" {
		t.Errorf("invoice_number = %v, want 2024001", inv.InvoiceNumber)
	}
	if inv.CustomerID == nil || *inv.CustomerID != "889" {
		t.Errorf("customer_id = %v, want 889", inv.CustomerID)
	}

	out, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if !strings.Contains(string(out), `"invoice_number":"2024001"`) {
		t.Errorf("numeric identifier not normalized to string: %s", out)
	}
}

func TestFlexString_LargeAndDecimalNumbers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want FlexString
	}{
		{`"F-2024-001"`, "F-2024-001"},
		{`123456789012345678`, "123456789012345678"},
		{`20.24`, "20.24"},
	}
	for _, c := range cases {
		var s FlexString
		if err := json.Unmarshal([]byte(c.in), &s); err != nil {
			t.Errorf("unmarshal %s: %v", c.in, err)
			continue
		}
		if s != c.want {
			t.Errorf("FlexString(%s) = %q, want %q", c.in, s, c.want)
		}
	}

	var s FlexString
	if err := json.Unmarshal([]byte(`["nope"]`), &s); err == nil {
		t.Error("array should not decode into an identifier")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	inv := Invoice{
		ID:          "abc",
		FilePath:    "/tmp/f.pdf",
		Provider:    strPtr("Acme Power"),
		TotalAmount: numPtr(150.75),
		TotalKWh:    numPtr(1200),
		RatePerKWh:  numPtr(0.12),
	}
	s := inv.Summarize()
	if s.ID != "abc" || *s.Provider != "Acme Power" || *s.TotalAmount != 150.75 {
		t.Errorf("summary = %+v", s)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	out := string(b)
	for _, absent := range []string{"file_path", "rate_per_kwh", "items", "taxes"} {
		if strings.Contains(out, absent) {
			t.Errorf("summary leaked %q: %s", absent, out)
		}
	}
}
