package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeState(t *testing.T) {
	s, err := DecodeState(`{"return_url":"https://ptn.example","user":"acc-1"}`)
	require.NoError(t, err)
	assert.Equal(t, "https://ptn.example", s.ReturnURL)
	assert.Equal(t, "acc-1", s.User)
}

func TestDecodeState_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"user":"acc-1"}`} {
		_, err := DecodeState(raw)
		assert.Error(t, err, "state %q", raw)
	}
}

func TestStateEncodeRoundTrip(t *testing.T) {
	in := State{ReturnURL: "https://ptn.example/", User: "acc-1"}
	out, err := DecodeState(in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReturnURL(t *testing.T) {
	got, err := ReturnURL("https://ptn.example", [2]string{"user", "acc-1"}, [2]string{"slack", "1"})
	require.NoError(t, err)
	assert.Equal(t, "https://ptn.example?user=acc-1&slack=1", got)

	got, err = ReturnURL("https://ptn.example/done?lang=en", [2]string{"user", "a b"})
	require.NoError(t, err)
	assert.Equal(t, "https://ptn.example/done?lang=en&user=a+b", got)
}
