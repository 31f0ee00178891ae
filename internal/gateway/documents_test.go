package gateway

import (
	"context"
	"strings"
	"testing"
)

func TestDocumentLifecycle(t *testing.T) {
	srv := newStubServer(t)
	c := newClient(srv.URL)

	resp := c.UploadDocument(context.Background(), strings.NewReader("pdf bytes"), "atlas.pdf", DefaultUserID)
	if !resp.Success {
		t.Fatalf("UploadDocument failed: %s", resp.Message)
	}
	if resp.Document == nil || resp.Document.Filename != "atlas.pdf" {
		t.Fatalf("Document = %+v, want atlas.pdf", resp.Document)
	}

	docs := c.FetchDocuments(context.Background(), DefaultUserID)
	if len(docs) != 1 || docs[0].ID != resp.Document.ID {
		t.Fatalf("FetchDocuments = %+v, want the uploaded document", docs)
	}

	if !c.DeleteDocument(context.Background(), resp.Document.ID, DefaultUserID) {
		t.Fatal("DeleteDocument not confirmed for an existing document")
	}
	if docs := c.FetchDocuments(context.Background(), DefaultUserID); len(docs) != 0 {
		t.Errorf("documents after delete = %+v, want empty", docs)
	}
}

func TestUploadDocumentBackendDown(t *testing.T) {
	c := newClient(unreachableURL(t))

	resp := c.UploadDocument(context.Background(), strings.NewReader("x"), "a.pdf", DefaultUserID)
	if resp.Success {
		t.Error("upload succeeded with no backend")
	}
	if !strings.Contains(resp.Message, "Unable to reach the backend") {
		t.Errorf("Message = %q, want connectivity guidance", resp.Message)
	}
}

func TestFetchDocumentsScopedToUser(t *testing.T) {
	srv := newStubServer(t)
	c := newClient(srv.URL)

	c.UploadDocument(context.Background(), strings.NewReader("x"), "mine.pdf", "alice")

	if docs := c.FetchDocuments(context.Background(), "bob"); len(docs) != 0 {
		t.Errorf("bob sees %d documents uploaded by alice, want 0", len(docs))
	}
	if docs := c.FetchDocuments(context.Background(), "alice"); len(docs) != 1 {
		t.Errorf("alice sees %d documents, want 1", len(docs))
	}
}

func TestDeleteDocumentNotOwned(t *testing.T) {
	srv := newStubServer(t)
	c := newClient(srv.URL)

	resp := c.UploadDocument(context.Background(), strings.NewReader("x"), "mine.pdf", "alice")
	if !resp.Success {
		t.Fatal(resp.Message)
	}

	if c.DeleteDocument(context.Background(), resp.Document.ID, "bob") {
		t.Error("bob deleted alice's document")
	}
}
