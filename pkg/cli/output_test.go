package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

type summary struct {
	Address string `json:"address"`
	Routes  int    `json:"routes"`
}

func (s summary) Fields() []Field {
	return []Field{
		{Label: "Listen address", Value: s.Address},
		{Label: "Routes", Value: s.Routes},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, "plain message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if got := buf.String(); got != "plain message\n" {
		t.Errorf("FormatTo() = %q", got)
	}
}

func TestTextFormatter_Fields(t *testing.T) {
	var buf bytes.Buffer
	err := (&TextFormatter{}).FormatTo(&buf, summary{Address: "127.0.0.1:8080", Routes: 3})
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "Listen address:  127.0.0.1:8080\n" +
		"Routes:          3\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatTo() =\n%s\nwant\n%s", got, want)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)
	if err := f.FormatTo(&buf, summary{Address: "0.0.0.0:9000", Routes: 5}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if got.Address != "0.0.0.0:9000" || got.Routes != 5 {
		t.Errorf("decoded = %+v", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  ")) {
		t.Error("JSON output should be indented")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) should return a TextFormatter")
	}
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return a JSONFormatter")
	}
}
