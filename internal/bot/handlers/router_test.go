package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reibun/reibunbot/internal/config"
)

const (
	testGuild = "1261060300979834965"
	testOwner = "111"
	testAdmin = "999"
)

// fakeConversation keeps per-server history rows in memory.
type fakeConversation struct {
	mu       sync.Mutex
	rows     map[int64]int
	reply    string
	err      error
	clearErr error
	block    bool
}

func newFakeConversation() *fakeConversation {
	return &fakeConversation{rows: make(map[int64]int), reply: "猫です\n||in Hiragana: ねこです||\n||in English: It is a cat.||"}
}

func (f *fakeConversation) Generate(ctx context.Context, serverID int64) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[serverID]++
	return f.reply, nil
}

func (f *fakeConversation) Clear(_ context.Context, serverID int64) (int64, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.rows[serverID]
	delete(f.rows, serverID)
	return int64(n), nil
}

func (f *fakeConversation) count(serverID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[serverID]
}

type fakeOwners struct {
	owner string
	err   error
}

func (f fakeOwners) GuildOwner(context.Context, string) (string, error) {
	return f.owner, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{
			Prefix:         "!",
			AdminUserID:    testAdmin,
			AutoChannelIDs: []string{"555"},
			CommandTimeout: time.Second,
		},
		Messages: config.DefaultMessages,
	}
}

func newTestRouter(t *testing.T, conv *fakeConversation, owners OwnerResolver, middleware ...Middleware) *Router {
	t.Helper()
	return NewRouter(HandlerDeps{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:       testConfig(),
		Conversation: conv,
		Owners:       owners,
	}, middleware...)
}

func TestRouteReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		msg       Message
		wantOK    bool
		wantText  string
		wantReply bool
	}{
		{name: "ping", msg: Message{Content: "!ping", GuildID: testGuild}, wantOK: true, wantText: "Pong"},
		{name: "ping upper case with spaces", msg: Message{Content: "!  PING ", GuildID: testGuild}, wantOK: true, wantText: "Pong"},
		{name: "ping in direct message", msg: Message{Content: "!ping"}, wantOK: true, wantText: "Pong"},
		{name: "unknown command", msg: Message{Content: "!xyz", GuildID: testGuild}, wantOK: true, wantText: "Command Not Found", wantReply: true},
		{name: "bare prefix", msg: Message{Content: "!", GuildID: testGuild}, wantOK: true, wantText: "Command Not Found", wantReply: true},
		{name: "no prefix", msg: Message{Content: "ping", GuildID: testGuild}},
		{name: "jp in direct message", msg: Message{Content: "!jp"}, wantOK: true, wantText: "This command only works in a server.", wantReply: true},
		{name: "clear in direct message", msg: Message{Content: "!clear", AuthorID: testOwner}, wantOK: true, wantText: "This command only works in a server.", wantReply: true},
		{
			name:     "jp",
			msg:      Message{Content: "!jp", GuildID: testGuild},
			wantOK:   true,
			wantText: "猫です\n||in Hiragana: ねこです||\n||in English: It is a cat.||",
		},
		{
			name:     "auto channel without prefix",
			msg:      Message{Content: "anything at all", GuildID: testGuild, ChannelID: "555"},
			wantOK:   true,
			wantText: "猫です\n||in Hiragana: ねこです||\n||in English: It is a cat.||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(t, newFakeConversation(), fakeOwners{owner: testOwner})
			msg := tt.msg
			reply, ok := r.Route(context.Background(), &msg)
			if ok != tt.wantOK {
				t.Fatalf("Route() ok = %v, want %v", ok, tt.wantOK)
			}
			if reply.Text != tt.wantText {
				t.Errorf("Route() text = %q, want %q", reply.Text, tt.wantText)
			}
			if reply.AsReply != tt.wantReply {
				t.Errorf("Route() AsReply = %v, want %v", reply.AsReply, tt.wantReply)
			}
		})
	}
}

func TestRouteClearAuthorization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		author    string
		wantText  string
		wantLeft  int
		ownersErr error
	}{
		{name: "non-owner", author: "222", wantText: "no.", wantLeft: 3},
		{name: "owner", author: testOwner, wantText: "History cleared.", wantLeft: 0},
		{name: "bot admin", author: testAdmin, wantText: "History cleared.", wantLeft: 0},
		{name: "owner lookup fails", author: "222", wantText: "Something went wrong, please try again later.", wantLeft: 3, ownersErr: errors.New("gateway down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			conv := newFakeConversation()
			r := newTestRouter(t, conv, fakeOwners{owner: testOwner, err: tt.ownersErr})

			for i := 0; i < 3; i++ {
				if _, ok := r.Route(ctx, &Message{Content: "!jp", GuildID: testGuild, AuthorID: "222"}); !ok {
					t.Fatal("!jp was not routed")
				}
			}

			reply, ok := r.Route(ctx, &Message{Content: "!clear", GuildID: testGuild, AuthorID: tt.author})
			if !ok {
				t.Fatal("!clear was not routed")
			}
			if reply.Text != tt.wantText || !reply.AsReply {
				t.Errorf("Route() = %+v, want reply %q", reply, tt.wantText)
			}
			if left := conv.count(1261060300979834965); left != tt.wantLeft {
				t.Errorf("%d rows left, want %d", left, tt.wantLeft)
			}
		})
	}
}

func TestRouteFailures(t *testing.T) {
	t.Parallel()

	t.Run("generation error", func(t *testing.T) {
		t.Parallel()
		conv := newFakeConversation()
		conv.err = errors.New("AI reply has no usable content")
		r := newTestRouter(t, conv, fakeOwners{})

		reply, _ := r.Route(context.Background(), &Message{Content: "!jp", GuildID: testGuild})
		if reply.Text != "Something went wrong, please try again later." || !reply.AsReply {
			t.Errorf("Route() = %+v", reply)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		conv := newFakeConversation()
		conv.block = true
		r := newTestRouter(t, conv, fakeOwners{})
		r.timeout = 10 * time.Millisecond

		reply, _ := r.Route(context.Background(), &Message{Content: "!jp", GuildID: testGuild})
		if reply.Text != "That took too long, please try again later." {
			t.Errorf("Route() = %+v", reply)
		}
	})

	t.Run("database error on clear", func(t *testing.T) {
		t.Parallel()
		conv := newFakeConversation()
		conv.clearErr = errors.New("connection refused")
		r := newTestRouter(t, conv, fakeOwners{owner: testOwner})

		reply, _ := r.Route(context.Background(), &Message{Content: "!clear", GuildID: testGuild, AuthorID: testOwner})
		if reply.Text != "Couldn't clear the history, database error." || !reply.AsReply {
			t.Errorf("Route() = %+v", reply)
		}
	})

	t.Run("malformed server id", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, newFakeConversation(), fakeOwners{})

		reply, _ := r.Route(context.Background(), &Message{Content: "!jp", GuildID: "not-a-number"})
		if reply.Text != "Something went wrong, please try again later." {
			t.Errorf("Route() = %+v", reply)
		}
	})
}

func TestRouterMiddlewareSeesCommand(t *testing.T) {
	t.Parallel()

	var seen []string
	record := func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) (Reply, error) {
			seen = append(seen, msg.Command)
			return next(ctx, msg)
		}
	}
	r := newTestRouter(t, newFakeConversation(), fakeOwners{}, record)

	r.Route(context.Background(), &Message{Content: "!help"})
	r.Route(context.Background(), &Message{Content: "!nope"})
	r.Route(context.Background(), &Message{Content: "!ping"})

	if strings.Join(seen, ",") != "help,ping" {
		t.Errorf("middleware saw %v, want [help ping]", seen)
	}
}

func TestTypingWrapsSlowCommandsOnly(t *testing.T) {
	t.Parallel()

	var typed []string
	typing := func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) (Reply, error) {
			typed = append(typed, msg.Command)
			return next(ctx, msg)
		}
	}
	r := NewRouter(HandlerDeps{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:       testConfig(),
		Conversation: newFakeConversation(),
		Owners:       fakeOwners{owner: testOwner},
		Typing:       typing,
	})

	ctx := context.Background()
	for _, msg := range []*Message{
		{Content: "!help", GuildID: testGuild, AuthorID: "222"},
		{Content: "!ping", GuildID: testGuild, AuthorID: "222"},
		{Content: "!jp", AuthorID: "222"},
		{Content: "!clear", GuildID: testGuild, AuthorID: "222"},
		{Content: "!jp", GuildID: testGuild, AuthorID: "222"},
		{Content: "!clear", GuildID: testGuild, AuthorID: testOwner},
	} {
		if _, ok := r.Route(ctx, msg); !ok {
			t.Fatalf("Route(%q) not handled", msg.Content)
		}
	}

	if strings.Join(typed, ",") != "jp,clear" {
		t.Errorf("typing shown for %v, want [jp clear]", typed)
	}
}

func TestHelpText(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"!", "jp."} {
		lines := strings.Split(HelpText(prefix), "\n")
		if lines[0] != "Available Commands:" {
			t.Errorf("header = %q", lines[0])
		}
		if len(lines) != 1+len(Commands) {
			t.Fatalf("got %d lines, want %d", len(lines), 1+len(Commands))
		}
		for i, c := range Commands {
			want := "`" + prefix + c.Name + "` - " + c.Description
			if lines[i+1] != want {
				t.Errorf("line %d = %q, want %q", i+1, lines[i+1], want)
			}
		}
	}
}
