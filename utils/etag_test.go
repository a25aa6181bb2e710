package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETagDeterministic(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	a := GenerateETag(id, at)
	b := GenerateETag(id, at)

	if a != b {
		t.Errorf("same inputs produced different etags: %q vs %q", a, b)
	}
}

func TestGenerateETagQuoted(t *testing.T) {
	etag := GenerateETag(primitive.NewObjectID(), time.Now())

	if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) {
		t.Errorf("etag is not quoted: %q", etag)
	}
}

func TestGenerateETagChangesWithTime(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	a := GenerateETag(id, at)
	b := GenerateETag(id, at.Add(time.Millisecond))

	if a == b {
		t.Error("etag did not change after the document was updated")
	}
}

func TestGenerateETagChangesWithID(t *testing.T) {
	at := time.Now()

	a := GenerateETag(primitive.NewObjectID(), at)
	b := GenerateETag(primitive.NewObjectID(), at)

	if a == b {
		t.Error("different documents produced the same etag")
	}
}

func TestGenerateListETagDeterministic(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	at := time.Now()

	a := GenerateListETag(ids, at)
	b := GenerateListETag(ids, at)

	if a != b {
		t.Errorf("same inputs produced different etags: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("etag is not quoted: %q", a)
	}
}

func TestGenerateListETagChangesOnRemoval(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	at := time.Now()

	full := GenerateListETag(ids, at)
	// Deleting a document changes the membership even when the newest
	// update time stays the same.
	shrunk := GenerateListETag(ids[:2], at)

	if full == shrunk {
		t.Error("etag did not change after a document left the listing")
	}
}

func TestGenerateListETagChangesWithMembership(t *testing.T) {
	at := time.Now()
	a := []primitive.ObjectID{primitive.NewObjectID()}
	b := []primitive.ObjectID{primitive.NewObjectID()}

	if GenerateListETag(a, at) == GenerateListETag(b, at) {
		t.Error("different listings produced the same etag")
	}
}

func TestGenerateListETagChangesWithTime(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	at := time.Now()

	if GenerateListETag(ids, at) == GenerateListETag(ids, at.Add(time.Millisecond)) {
		t.Error("etag did not change after a document was updated")
	}
}
