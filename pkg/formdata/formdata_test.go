package formdata

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFilePart_PreservesNameAndType(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	n, err := CopyFilePart(w, "file_0", `report "q1".pdf`, "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
	_, err = CopyFilePart(w, "audio", "audio.webm", "", strings.NewReader("ogg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&body, w.Boundary())

	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file_0", part.FormName())
	assert.Equal(t, `report "q1".pdf`, part.FileName())
	assert.Equal(t, "application/pdf", part.Header.Get("Content-Type"))
	data, _ := io.ReadAll(part)
	assert.Equal(t, "%PDF-1.4", string(data))

	part, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "audio", part.FormName())
	assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))
}
