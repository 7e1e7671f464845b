package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmlingo/farmlingo/internal/client/models"
)

// Whoami prints the account the server knows about, falling back to the
// identity token's profile while a sync is still pending.
func (a *App) Whoami(_ context.Context) error {
	snap := a.store.Snapshot()

	if !snap.IsSignedIn {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	if snap.User != nil {
		u := snap.User
		fmt.Fprintf(a.out, "%s <%s>\n", u.DisplayName(), u.Email)
		fmt.Fprintf(a.out, "  account id: %s\n", u.UserID)
		fmt.Fprintf(a.out, "  active:     %t\n", u.IsActive)
		if snap.Err != "" {
			fmt.Fprintf(a.out, "  last sync:  %s\n", snap.Err)
		}
		return nil
	}

	if a.provider != nil {
		if p, err := a.provider.Profile(); err == nil {
			fmt.Fprintf(a.out, "%s <%s> (not synced with the server yet)\n",
				strings.TrimSpace(p.FirstName+" "+p.LastName), p.Email)
			if snap.Err != "" {
				fmt.Fprintf(a.out, "  last sync:  %s\n", snap.Err)
			}
			return nil
		}
	}

	fmt.Fprintln(a.out, "Signed in, but no account details are available yet.")
	return nil
}

// Sync pushes the identity profile to the server synchronously and reports
// the outcome. The background sync started at login does the same work; this
// command exists for retrying after a failure.
func (a *App) Sync(ctx context.Context) error {
	if a.provider == nil {
		fmt.Fprintln(a.out, "Sign in first.")
		return nil
	}

	profile, err := a.provider.Profile()
	if err != nil {
		return err
	}

	a.store.SyncUser(ctx, profile)
	a.reportSyncOutcome()
	return nil
}

// Refresh re-fetches the current account from the server.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isSignedIn() {
		fmt.Fprintln(a.out, "Sign in first.")
		return nil
	}

	if err := a.store.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Refresh failed:", err)
		return err
	}
	a.reportSyncOutcome()
	return nil
}

func (a *App) reportSyncOutcome() {
	snap := a.store.Snapshot()
	switch {
	case snap.Err != "":
		fmt.Fprintln(a.out, "Sync failed:", snap.Err)
	case snap.User != nil:
		fmt.Fprintf(a.out, "Synced as %s <%s>\n", snap.User.DisplayName(), snap.User.Email)
	default:
		fmt.Fprintln(a.out, "Nothing to sync.")
	}
}

// Feed lists community posts, newest first.
func (a *App) Feed(_ context.Context) error {
	posts := a.feed.Posts()
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "The feed is empty.")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintf(a.out, "[%s] %s — %s (%d likes, %d replies)\n",
			p.PostedAt.Format("Jan 2 15:04"), p.Title, p.Author, p.Likes, p.Replies)
		fmt.Fprintf(a.out, "    %s\n", p.Body)
	}
	return nil
}

// Chat shows the community chat, or posts the given words to it.
// Posting requires a signed-in session; reading does not.
func (a *App) Chat(_ context.Context, args []string) error {
	if len(args) == 0 {
		for _, m := range a.thread.Messages() {
			likes := ""
			if m.Likes > 0 {
				likes = fmt.Sprintf(" (+%d)", m.Likes)
			}
			fmt.Fprintf(a.out, "%s %s: %s%s\n", m.SentAt.Format("15:04"), m.SenderName, m.Text, likes)
		}
		return nil
	}

	snap := a.store.Snapshot()
	if !snap.IsSignedIn {
		fmt.Fprintln(a.out, "Sign in to post messages.")
		return nil
	}

	id, name := a.senderIdentity(snap.User)
	m := a.thread.Post(id, name, strings.Join(args, " "))
	fmt.Fprintf(a.out, "Posted at %s\n", m.SentAt.Format("15:04"))
	return nil
}

// senderIdentity prefers the synced account, falling back to the token's
// profile when the server has not confirmed the user yet.
func (a *App) senderIdentity(user *models.User) (id, name string) {
	if user != nil {
		return user.UserID, user.DisplayName()
	}
	if a.provider != nil {
		if p, err := a.provider.Profile(); err == nil {
			return p.ID, strings.TrimSpace(p.FirstName + " " + p.LastName)
		}
	}
	return "anonymous", "Anonymous"
}
