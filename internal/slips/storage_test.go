package slips

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
)

func newTestStorage(t *testing.T) Storage {
	t.Helper()
	store, err := NewStorage(config.UploadsConfig{Dir: t.TempDir(), MaxUploadMB: 1})
	require.NoError(t, err)
	return store
}

func TestSaveAndOpenSlip(t *testing.T) {
	store := newTestStorage(t)

	ref, err := store.Save(context.Background(), "receipt.jpg", strings.NewReader("slip-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "slips/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
	// Random name, not the uploaded one.
	assert.NotContains(t, ref, "receipt")

	rc, err := store.Open(ref)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "slip-bytes", string(data))
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Save(context.Background(), "receipt.exe", strings.NewReader("x"))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Save(context.Background(), "receipt.png", strings.NewReader(""))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := newTestStorage(t)

	big := strings.NewReader(strings.Repeat("a", 1024*1024+1))
	_, err := store.Save(context.Background(), "receipt.png", big)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Open("../etc/passwd")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestOpenMissingSlip(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Open("slips/does-not-exist.jpg")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
