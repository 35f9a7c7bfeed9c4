package product

import (
	"testing"
	"time"
)

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "Y-m-d"},
		{format: "Y-m-d H:i:s"},
		{format: "n/d/y, g:i A"},
		{format: "D, d M Y"},
		{format: "Y-m-d\\TH:i:sP"},
		{format: "Y-m-d\\", wantErr: true},
		{format: "U", wantErr: true},
		{format: "Y-m-d e", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateDateFormat(tt.format)
			if tt.wantErr && err == nil {
				t.Fatalf("ValidateDateFormat(%q) = nil, want error", tt.format)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ValidateDateFormat(%q) error: %v", tt.format, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		value   string
		want    string
		wantOff int
		wantErr bool
	}{
		{name: "padded", format: "n/d/y, g:i A", value: "1/05/23, 3:04 PM", want: "2023-01-05 15:04:00"},
		{name: "unpadded day", format: "n/d/y, g:i A", value: "1/5/23, 3:04 PM", want: "2023-01-05 15:04:00"},
		{name: "lower meridiem", format: "n/d/y, g:i A", value: "1/05/23, 3:04 pm", want: "2023-01-05 15:04:00"},
		{name: "midnight", format: "n/d/y, g:i A", value: "1/05/23, 12:00 AM", want: "2023-01-05 00:00:00"},
		{name: "noon", format: "n/d/y, g:i a", value: "1/05/23, 12:30 pm", want: "2023-01-05 12:30:00"},
		{name: "century pivot", format: "n/d/y", value: "12/31/69", want: "2069-12-31 00:00:00"},
		{name: "unpadded iso", format: "Y-m-d", value: "2023-1-5", want: "2023-01-05 00:00:00"},
		{name: "dotted", format: "d.m.Y", value: "5.1.2023", want: "2023-01-05 00:00:00"},
		{name: "names", format: "D, d M Y", value: "thu, 05 JAN 2023", want: "2023-01-05 00:00:00"},
		{name: "full month", format: "F j, Y", value: "January 5, 2023", want: "2023-01-05 00:00:00"},
		{name: "escaped literal", format: "Y-m-d\\TH:i:s", value: "2023-01-05T08:09:10", want: "2023-01-05 08:09:10"},
		{name: "offset", format: "Y-m-d H:i:sP", value: "2023-01-05 08:09:10+02:00", want: "2023-01-05 08:09:10", wantOff: 7200},
		{name: "compact offset", format: "Y-m-d H:iO", value: "2023-01-05 08:09-0130", want: "2023-01-05 08:09:00", wantOff: -5400},
		{name: "zone", format: "Y-m-d T", value: "2023-01-05 UTC", want: "2023-01-05 00:00:00"},
		{name: "leap day", format: "Y-m-d", value: "2024-02-29", want: "2024-02-29 00:00:00"},
		{name: "not a leap year", format: "Y-m-d", value: "2023-02-29", wantErr: true},
		{name: "month out of range", format: "Y-m-d", value: "2023-13-01", wantErr: true},
		{name: "hour out of range", format: "n/d/y, g:i A", value: "1/05/23, 13:04 PM", wantErr: true},
		{name: "single digit minute", format: "H:i", value: "3:4", wantErr: true},
		{name: "trailing data", format: "Y-m-d", value: "2023-01-05 10:00", wantErr: true},
		{name: "literal mismatch", format: "Y-m-d", value: "2023/01/05", wantErr: true},
		{name: "bad meridiem", format: "g:i A", value: "3:04 XM", wantErr: true},
		{name: "empty", format: "Y-m-d", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.format, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q, %q) = %v, want error", tt.format, tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q, %q) error: %v", tt.format, tt.value, err)
			}
			if s := got.Format(time.DateTime); s != tt.want {
				t.Errorf("ParseDate(%q, %q) = %s, want %s", tt.format, tt.value, s, tt.want)
			}
			if _, off := got.Zone(); off != tt.wantOff {
				t.Errorf("ParseDate(%q, %q) offset = %d, want %d", tt.format, tt.value, off, tt.wantOff)
			}
		})
	}
}
