package input

import (
	"errors"
	"testing"
)

func TestPromptMatchingCommands(t *testing.T) {
	commands := Commands(true)

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no_slash", input: "describe", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "slash_only", input: "/", want: 3},
		{name: "full", input: "/invite", want: 1},
		{name: "prefix", input: "/d", want: 1},
		{name: "upper", input: "/H", want: 1},
		{name: "with_space", input: "/invite x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptMatchingCommands(tt.input, commands)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCommands_OwnerOnlyInvite(t *testing.T) {
	if got := PromptMatchingCommands("/i", Commands(false)); len(got) != 0 {
		t.Errorf("invitees should not see /invite: %v", got)
	}
}

func TestPromptAutocomplete(t *testing.T) {
	value, ok := PromptAutocomplete("/de", Commands(false))
	if !ok {
		t.Fatal("expected autocomplete")
	}
	if value != "/describe " {
		t.Fatalf("value = %q, want %q", value, "/describe ")
	}

	if _, ok := PromptAutocomplete("/zz", Commands(false)); ok {
		t.Error("unexpected autocomplete")
	}
}

func TestParse(t *testing.T) {
	commands := Commands(true)

	tests := []struct {
		input    string
		wantName string
		wantArgs string
	}{
		{"/invite a@x.com, b@x.com", CmdInvite, "a@x.com, b@x.com"},
		{"/HOURS 9-12", CmdHours, "9-12"},
		{"/describe  mornings ", CmdDescribe, "mornings"},
		{"free after 6pm", CmdDescribe, "free after 6pm"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, args, err := Parse(tt.input, commands)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if name != tt.wantName || args != tt.wantArgs {
				t.Errorf("Parse = %q %q, want %q %q", name, args, tt.wantName, tt.wantArgs)
			}
		})
	}

	for _, bad := range []string{"", "/nope", "/invite"} {
		cmds := commands
		if bad == "/invite" {
			cmds = Commands(false)
		}
		if _, _, err := Parse(bad, cmds); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("Parse(%q) err = %v", bad, err)
		}
	}
}

func TestParseHourRange(t *testing.T) {
	tests := []struct {
		input    string
		from, to int
		wantErr  bool
	}{
		{"9-17", 9, 17, false},
		{" 09:00 - 12:00 ", 9, 12, false},
		{"0-23", 0, 23, false},
		{"12-12", 12, 12, false},
		{"17-9", 0, 0, true},
		{"9-24", 0, 0, true},
		{"9", 0, 0, true},
		{"a-b", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			from, to, err := ParseHourRange(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHours) {
					t.Fatalf("expected ErrInvalidHours, got %v", err)
				}
				return
			}
			if err != nil || from != tt.from || to != tt.to {
				t.Errorf("ParseHourRange = %d, %d, %v", from, to, err)
			}
		})
	}
}
