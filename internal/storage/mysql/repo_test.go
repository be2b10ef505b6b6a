package mysql

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeList(t *testing.T) {
	got, err := decodeList("amenities", "h1", []byte(`["wifi","spa"]`))
	if err != nil || !reflect.DeepEqual(got, []string{"wifi", "spa"}) {
		t.Fatalf("decodeList = %v, %v", got, err)
	}

	// NULL column
	if got, err := decodeList("photos", "h1", nil); err != nil || got != nil {
		t.Fatalf("expected no values for NULL, got %v, %v", got, err)
	}
}

func TestDecodeList_CorruptColumnIsReported(t *testing.T) {
	_, err := decodeList("photos", "h1", []byte(`{"url":`))
	if err == nil {
		t.Fatal("expected an error for a corrupt column")
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected the json error to be wrapped, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "decode photos of hotel h1") {
		t.Fatalf("error lacks column context: %v", err)
	}

	// an array of the wrong element type is corrupt as well
	if _, err := decodeList("amenities", "h1", []byte(`[1,2]`)); err == nil {
		t.Fatal("expected an error for non-string elements")
	}
}
