package typeset

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (n int, err error) {
	r, err := openPDF(data)
	if err != nil {
		return 0, err
	}
	defer recoverInspect(&err)
	return r.NumPage(), nil
}

// ExtractText returns the plain text content of a PDF.
func ExtractText(data []byte) (text string, err error) {
	r, err := openPDF(data)
	if err != nil {
		return "", err
	}
	defer recoverInspect(&err)

	plain, err := r.GetPlainText()
	if err != nil {
		return "", &InspectError{Message: "failed to extract text", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &InspectError{Message: "failed to read text", Cause: err}
	}
	return buf.String(), nil
}

func openPDF(data []byte) (r *pdf.Reader, err error) {
	if len(data) == 0 {
		return nil, &InspectError{Message: "empty document"}
	}
	defer recoverInspect(&err)

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &InspectError{Message: "failed to parse PDF", Cause: err}
	}
	return r, nil
}

// recoverInspect turns parser panics on malformed input into errors.
func recoverInspect(err *error) {
	if r := recover(); r != nil {
		*err = &InspectError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
	}
}
