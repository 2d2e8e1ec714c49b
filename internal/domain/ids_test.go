package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"000000000012", 12, false},
		{"999999999999", MaxID, false},
		{"1000000000000", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntity) {
					t.Fatalf("ParseID(%q) error = %v, want ErrInvalidEntity", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseID(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`999999999999`, MaxID, false},
		{`1000000000000`, 0, true},
		{`"1000000000000"`, 0, true},
		{`-5`, 0, true},
		{`"-5"`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got ID
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEntity) {
					t.Fatalf("Unmarshal(%s) error = %v, want ErrInvalidEntity", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Unmarshal(%s) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}
