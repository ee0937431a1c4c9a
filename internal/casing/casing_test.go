package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{None, "Data_In", "Data_In"},
		{Lower, "Data_In", "data_in"},
		{Upper, "data_in", "DATA_IN"},
		{Title, "read data", "Read Data"},
		{Capitalize, "rEAD data", "Read data"},
		{Camel, "read_data_valid", "readDataValid"},
		{Pascal, "read_data_valid", "ReadDataValid"},
		{Snake, "ReadDataValid", "read_data_valid"},
		{Kebab, "ReadDataValid", "read-data-valid"},
		{Capitalize, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.style.String()+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.style.Apply(tt.in))
		})
	}
}

func TestParseStyle(t *testing.T) {
	for _, name := range Names() {
		s, err := ParseStyle(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	s, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, None, s)

	s, err = ParseStyle(" Snake ")
	require.NoError(t, err)
	assert.Equal(t, Snake, s)

	_, err = ParseStyle("screaming")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none, lower, upper, title, capitalize, camel, pascal, snake, kebab")
}

func TestUnknownStyle(t *testing.T) {
	assert.Equal(t, "x_y", Style(99).Apply("x_y"))
	assert.Equal(t, "Style(99)", Style(99).String())
}
