package xbelmark

import (
	"errors"
	"testing"
	"time"
)

func TestDateTimeToUnix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{
			name:  "date-time with offset",
			input: "2023-01-02T03:04:05+00:00",
			want:  1672628645,
		},
		{
			name:  "date only is midnight UTC",
			input: "2023-01-02",
			want:  1672617600,
		},
		{
			name:    "not a date",
			input:   "not-a-date",
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrMalformedTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DateTimeToUnix(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DateTimeToUnix(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DateTimeToUnix(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("DateTimeToUnix(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateTimeToUnix_Reencoding(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"2023-01-02T03:04:05+00:00",
		"2016-12-10T18:30:15.75-05:00",
		"1969-07-20T20:17:40Z",
		"2024-02-29",
	} {
		first, err := DateTimeToUnix(input)
		if err != nil {
			t.Fatalf("DateTimeToUnix(%q) unexpected error: %v", input, err)
		}
		canonical := time.Unix(first, 0).UTC().Format(time.RFC3339)
		second, err := DateTimeToUnix(canonical)
		if err != nil {
			t.Fatalf("DateTimeToUnix(%q) unexpected error: %v", canonical, err)
		}
		if first != second {
			t.Errorf("re-encoding %q via %q gave %d, want %d", input, canonical, second, first)
		}
	}
}
