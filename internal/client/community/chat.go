// Package community holds the chat and forum view models. Like the web app,
// these simulate multi-user messaging entirely in local state with seed data:
// there is no transport, no persistence and no cross-user ordering. The CLI
// renders them read-mostly.
package community

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSender       = errors.New("only the sender can modify a message")
	ErrMessageDeleted  = errors.New("message was deleted")
)

// deletedPlaceholder replaces the text of removed messages when rendering.
const deletedPlaceholder = "This message was deleted"

// Message is a single chat message view model.
type Message struct {
	ID         string
	SenderID   string
	SenderName string
	Text       string
	SentAt     time.Time
	// EditedAt is zero until the first edit.
	EditedAt  time.Time
	ReplyToID string
	Likes     int
	Deleted   bool
}

// Thread is an in-memory chat thread. Safe for concurrent use.
type Thread struct {
	mu       sync.Mutex
	name     string
	messages []*Message
	// likedBy tracks which users liked which message, so ToggleLike flips
	// rather than increments.
	likedBy map[string]map[string]bool

	now func() time.Time
}

func NewThread(name string) *Thread {
	return &Thread{
		name:    name,
		likedBy: make(map[string]map[string]bool),
		now:     time.Now,
	}
}

// Name returns the thread's display name.
func (t *Thread) Name() string { return t.name }

// Post appends a new message and returns a copy of it.
func (t *Thread) Post(senderID, senderName, text string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.postLocked(senderID, senderName, text, "")
}

// Reply appends a message referencing replyToID. The target must exist and
// not be deleted.
func (t *Thread) Reply(senderID, senderName, text, replyToID string) (Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := t.findLocked(replyToID)
	if target == nil {
		return Message{}, ErrMessageNotFound
	}
	if target.Deleted {
		return Message{}, ErrMessageDeleted
	}
	return t.postLocked(senderID, senderName, text, replyToID), nil
}

func (t *Thread) postLocked(senderID, senderName, text, replyToID string) Message {
	m := &Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		SentAt:     t.now(),
		ReplyToID:  replyToID,
	}
	t.messages = append(t.messages, m)
	return *m
}

// Edit replaces the text of the sender's own message and stamps EditedAt.
func (t *Thread) Edit(id, senderID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.findLocked(id)
	if m == nil {
		return ErrMessageNotFound
	}
	if m.Deleted {
		return ErrMessageDeleted
	}
	if m.SenderID != senderID {
		return ErrNotSender
	}

	m.Text = text
	m.EditedAt = t.now()
	return nil
}

// Delete soft-deletes the sender's own message; it keeps its place in the
// thread and renders as a placeholder.
func (t *Thread) Delete(id, senderID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.findLocked(id)
	if m == nil {
		return ErrMessageNotFound
	}
	if m.SenderID != senderID {
		return ErrNotSender
	}

	m.Deleted = true
	return nil
}

// ToggleLike flips userID's like on the message and reports the new state.
func (t *Thread) ToggleLike(id, userID string) (liked bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.findLocked(id)
	if m == nil {
		return false, ErrMessageNotFound
	}
	if m.Deleted {
		return false, ErrMessageDeleted
	}

	likes := t.likedBy[id]
	if likes == nil {
		likes = make(map[string]bool)
		t.likedBy[id] = likes
	}

	if likes[userID] {
		delete(likes, userID)
		m.Likes--
		return false, nil
	}
	likes[userID] = true
	m.Likes++
	return true, nil
}

// Messages returns copies of all messages in post order, with deleted ones
// rendered as placeholders.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, 0, len(t.messages))
	for _, m := range t.messages {
		c := *m
		if c.Deleted {
			c.Text = deletedPlaceholder
		}
		out = append(out, c)
	}
	return out
}

func (t *Thread) findLocked(id string) *Message {
	for _, m := range t.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// SeedGeneralThread builds the default community thread pre-populated the way
// the web app seeds its chat view.
func SeedGeneralThread() *Thread {
	t := NewThread("general")
	base := time.Now().Add(-2 * time.Hour)
	t.now = func() time.Time {
		base = base.Add(7 * time.Minute)
		return base
	}

	t.Post("seed_maria", "Maria", "Morning everyone! My tomato seedlings finally sprouted 🍅")
	first := t.Post("seed_tom", "Tom", "Congrats! What growing medium are you using?")
	_, _ = t.Reply("seed_maria", "Maria", "Coco coir with a bit of compost, works great so far", first.ID)
	t.Post("seed_aiko", "Aiko", "Anyone tried the drip irrigation lesson yet? Worth it?")

	t.now = time.Now
	return t
}

// Post is a single forum post view model.
type Post struct {
	ID       string
	Author   string
	Title    string
	Body     string
	Likes    int
	Replies  int
	PostedAt time.Time
}

// Feed is an in-memory forum feed. Safe for concurrent use.
type Feed struct {
	mu    sync.Mutex
	posts []*Post
}

func NewFeed() *Feed { return &Feed{} }

// Add appends a post and returns a copy of it.
func (f *Feed) Add(author, title, body string) Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := &Post{
		ID:       uuid.NewString(),
		Author:   author,
		Title:    title,
		Body:     body,
		PostedAt: time.Now(),
	}
	f.posts = append(f.posts, p)
	return *p
}

// Like increments the like counter and returns the new count.
func (f *Feed) Like(id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.ID == id {
			p.Likes++
			return p.Likes, nil
		}
	}
	return 0, ErrMessageNotFound
}

// Posts returns copies of all posts, newest first.
func (f *Feed) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedAt.After(out[j].PostedAt) })
	return out
}

// SeedFeed builds the default community feed with the web app's seed posts.
func SeedFeed() *Feed {
	f := NewFeed()
	now := time.Now()

	entries := []struct {
		author, title, body string
		likes, replies      int
		age                 time.Duration
	}{
		{"GreenThumbGary", "Best cover crops for sandy soil?", "Looking for something that overwinters well in zone 6.", 14, 6, 26 * time.Hour},
		{"UrbanFarmerLia", "My balcony hydroponics setup", "Sharing photos of my NFT channel build, happy to answer questions.", 32, 11, 9 * time.Hour},
		{"SoilNerd", "Compost thermometer recommendations", "Mine died after one season. What do you all use?", 7, 4, 3 * time.Hour},
	}
	for _, e := range entries {
		p := f.Add(e.author, e.title, e.body)
		f.mu.Lock()
		for _, stored := range f.posts {
			if stored.ID == p.ID {
				stored.Likes = e.likes
				stored.Replies = e.replies
				stored.PostedAt = now.Add(-e.age)
			}
		}
		f.mu.Unlock()
	}
	return f
}
