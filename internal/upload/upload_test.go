package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "My cool movie.mov", want: "My_cool_movie.mov"},
		{in: "../../../etc/passwd", want: "etc_passwd"},
		{in: `..\windows\system32.png`, want: "windows_system32.png"},
		{in: "camión rojo.jpg", want: "camion_rojo.jpg"},
		{in: "i contain cool ümläuts.txt", want: "i_contain_cool_umlauts.txt"},
		{in: "日本.png", want: "png"},
		{in: "...", want: ""},
		{in: "foto (1).JPG", want: "foto_1.JPG"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestAllowed(t *testing.T) {
	for _, name := range []string{"a.png", "a.JPG", "a.jpeg", "b.tar.gif"} {
		assert.True(t, Allowed(name), name)
	}
	for _, name := range []string{"a.txt", "png", "a.png.exe", ""} {
		assert.False(t, Allowed(name), name)
	}
}

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSave(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "image", "camiseta roja.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "camiseta_roja.png", name)

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	name, err = s.Save(fileHeader(t, "image", "notes.txt", []byte("x")))
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = s.Save(nil)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestPath(t *testing.T) {
	s := &Store{Dir: "/srv/uploads"}

	p, ok := s.Path("camiseta.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/uploads", "camiseta.png"), p)

	for _, bad := range []string{"", "../secret", "a/b.png", ".hidden"} {
		_, ok := s.Path(bad)
		assert.False(t, ok, bad)
	}
}
