package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSaveOpenRemove(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	entityID := uuid.New()
	att, err := d.Save("produto", entityID, "rotulo.pdf", "", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatal(err)
	}
	if att.EntityType != "produto" || att.EntityID != entityID {
		t.Fatalf("metadata = %+v", att)
	}
	if att.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", att.ContentType)
	}
	if att.Size != int64(len("%PDF-1.4 fake")) {
		t.Fatalf("size = %d", att.Size)
	}

	f, err := d.Open(att)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(f)
	f.Close()
	if string(body) != "%PDF-1.4 fake" {
		t.Fatalf("body = %q", body)
	}

	if err := d.Remove(att); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Open(att); err != ErrFileNotFound {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
	// deleting again is fine
	if err := d.Remove(att); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRejectsUnknownEntityType(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Save("faturas", uuid.New(), "x.txt", "", strings.NewReader("x")); err == nil {
		t.Fatal("unknown entity type accepted")
	}
}
