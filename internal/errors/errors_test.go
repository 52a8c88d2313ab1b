package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"clinicsetup/domain/core"
)

func TestGetCodeFromSentinels(t *testing.T) {
	cases := map[error]string{
		core.NewMissingSheetError("Resources"):                     CodeMissingSheet,
		core.NewInvalidFileTypeError("a.pdf"):                      CodeInvalidFileType,
		fmt.Errorf("locate: %w", core.ErrHeaderNotFound):           CodeHeaderNotFound,
		fmt.Errorf("%w: timeout", core.ErrExtractionRequestFailed): CodeExtractionRequestFailed,
		core.ErrExtractionResponseInvalid:                          CodeExtractionResponseInvalid,
		core.ErrImportInFlight:                                     CodeImportInFlight,
		core.NewUnknownDomainError("pets"):                         CodeUnknownDomain,
		core.ErrSessionNotFound:                                    CodeNotFound,
		stderrors.New("boom"):                                      CodeInternalError,
	}
	for err, want := range cases {
		assert.Equal(t, want, GetCode(err), err.Error())
	}
	assert.Equal(t, "", GetCode(nil))
}

func TestWrapKeepsCodeAndChain(t *testing.T) {
	err := Wrap(core.NewMissingSheetError("Hours"), "reading staff workbook")

	assert.Equal(t, CodeMissingSheet, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrMissingSheet))
	assert.Contains(t, err.Error(), "reading staff workbook")
	assert.Nil(t, Wrap(nil, "ignored"))

	outer := Wrap(ConfigInvalid("UPLOAD_DIR is required"), "configuration validation failed")
	assert.Equal(t, CodeConfigInvalid, GetCode(outer))
}

func TestImportFailed(t *testing.T) {
	err := ImportFailed("equipment", fmt.Errorf("%w: status 500", core.ErrExtractionRequestFailed))

	assert.Equal(t, CodeExtractionRequestFailed, err.Code)
	assert.True(t, stderrors.Is(err, core.ErrExtractionRequestFailed))
	assert.Equal(t, "equipment import failed: extraction request failed: status 500", err.Error())
}
