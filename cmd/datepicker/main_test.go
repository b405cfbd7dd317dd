package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDecode(t *testing.T, data string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := decodeCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{data})
	err := cmd.Execute()
	return buf.String(), err
}

func TestDecodeCmd(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"label", "ext:datepicker:", "label button, no action\n"},
		{"one field", "ext:datepicker:2021|en-US", "malformed datepicker callback\n"},
		{"missing locale", "ext:datepicker:2021:2", "malformed datepicker callback\n"},
		{"foreign", "menu:open", "not a datepicker callback\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runDecode(t, tt.data)
			require.NoError(t, err)
			if out != tt.want {
				t.Errorf("decode %q = %q, want %q", tt.data, out, tt.want)
			}
		})
	}
}

func TestDecodeCmd_Intent(t *testing.T) {
	out, err := runDecode(t, "ext:datepicker:2021:2:15|de-DE")
	require.NoError(t, err)

	assert.Contains(t, out, "kind:    select_date")
	assert.Contains(t, out, "date:    2021-02-15")
	assert.Contains(t, out, "locale:  de-DE")
	assert.Contains(t, out, "month:   Februar 2021")
}

func TestDecodeCmd_InvalidDate(t *testing.T) {
	_, err := runDecode(t, "ext:datepicker:2021:13|en-US")
	assert.Error(t, err)
}
