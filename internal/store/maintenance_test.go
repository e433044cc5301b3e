package store

import (
	"context"
	"testing"
)

func TestFixChannels(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	msg := &Message{SenderID: 1, ContentEncrypted: "x"}
	if err := repo.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("create message: %v", err)
	}
	db, _ := repo.getDB(ctx)
	if err := db.Model(&Message{}).Where("id = ?", msg.ID).Update("channel_id", "").Error; err != nil {
		t.Fatalf("blank channel: %v", err)
	}

	fixed, err := repo.FixChannels(ctx)
	if err != nil || fixed != 1 {
		t.Fatalf("expected 1 fixed row, got %d (%v)", fixed, err)
	}
	stored, _ := repo.MessageByID(ctx, msg.ID)
	if stored.ChannelID != "general" {
		t.Fatalf("expected general, got %q", stored.ChannelID)
	}
}

func TestBackfillReceivers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	msgs := []*Message{
		{SenderID: 3, ChannelID: "dm_3_5"},
		{SenderID: 5, ChannelID: "dm_3_5"},
		{SenderID: 9, ChannelID: "dm_3_5"},
		{SenderID: 3, ChannelID: "dm_bad"},
		{SenderID: 3, ChannelID: "general"},
	}
	for _, msg := range msgs {
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	updated, err := repo.BackfillReceivers(ctx)
	if err != nil || updated != 2 {
		t.Fatalf("expected 2 updates, got %d (%v)", updated, err)
	}
	first, _ := repo.MessageByID(ctx, msgs[0].ID)
	second, _ := repo.MessageByID(ctx, msgs[1].ID)
	outsider, _ := repo.MessageByID(ctx, msgs[2].ID)
	if first.ReceiverID == nil || *first.ReceiverID != 5 {
		t.Fatalf("expected receiver 5, got %v", first.ReceiverID)
	}
	if second.ReceiverID == nil || *second.ReceiverID != 3 {
		t.Fatalf("expected receiver 3, got %v", second.ReceiverID)
	}
	if outsider.ReceiverID != nil {
		t.Fatalf("expected outsider to be skipped")
	}
}

func TestDeleteLatestMessagesClearsReplies(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := &Message{SenderID: 1, ContentEncrypted: "base"}
	if err := repo.CreateMessage(ctx, base); err != nil {
		t.Fatalf("create message: %v", err)
	}
	reply := &Message{SenderID: 2, ContentEncrypted: "reply", ReplyToID: uintPtr(base.ID)}
	if err := repo.CreateMessage(ctx, reply); err != nil {
		t.Fatalf("create message: %v", err)
	}
	last := &Message{SenderID: 2, ContentEncrypted: "last"}
	if err := repo.CreateMessage(ctx, last); err != nil {
		t.Fatalf("create message: %v", err)
	}

	deleted, err := repo.DeleteLatestMessages(ctx, 2)
	if err != nil || deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d (%v)", deleted, err)
	}
	if _, err := repo.MessageByID(ctx, base.ID); err != nil {
		t.Fatalf("expected base message to remain: %v", err)
	}

	if _, err := repo.DeleteMessages(ctx, []uint{base.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	if err := repo.EachMessage(ctx, 10, func(batch []Message) error {
		count += len(batch)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d", count)
	}
}

func TestReset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	createUser(t, repo, "a@sentinel.net")

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, err := repo.ListUsers(ctx)
	if err != nil || len(users) != 0 {
		t.Fatalf("expected no users after reset, got %d (%v)", len(users), err)
	}
}
