package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetMessageFallbacks(t *testing.T) {
	dir := fstest.MapFS{
		"locales/en.json":  {Data: []byte(`{"hello": "Hello", "bye": "Bye"}`)},
		"locales/uk.json":  {Data: []byte(`{"hello": "Привіт"}`)},
		"locales/README":   {Data: []byte("ignored")},
		"locales/bad.json": {Data: []byte(`{not json`)},
	}
	l, err := NewLocalizer(dir, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "Привіт", l.GetMessage("uk", "hello"))
	assert.Equal(t, "Bye", l.GetMessage("uk", "bye"))
	assert.Equal(t, "Hello", l.GetMessage("de", "hello"))
	assert.Equal(t, "missing_key", l.GetMessage("en", "missing_key"))
}

func TestNewLocalizerRequiresFallback(t *testing.T) {
	dir := fstest.MapFS{
		"locales/uk.json": {Data: []byte(`{"hello": "Привіт"}`)},
	}
	_, err := NewLocalizer(dir, zap.NewNop())
	assert.Error(t, err)
}
