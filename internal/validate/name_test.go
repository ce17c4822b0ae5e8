package validate

import (
	"strings"
	"testing"
)

func TestNodeIDFormat(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"thesis", false},
		{"claim-1", false},
		{"counter_argument", false},
		{"n42", false},
		{"", true},
		{"Thesis", true},
		{"has space", true},
		{"-leading", true},
		{"trailing_", true},
		{strings.Repeat("a", MaxNodeIDLength+1), true},
	}

	for _, tt := range tests {
		err := NodeIDFormat(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("NodeIDFormat(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestUsernameFormat(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"ada", false},
		{"grace.hopper", false},
		{"user_01", false},
		{"ab", true},
		{"1abc", true},
		{"Alice", true},
		{strings.Repeat("a", MaxUsernameLength+1), true},
	}

	for _, tt := range tests {
		err := UsernameFormat(tt.username)
		if (err != nil) != tt.wantErr {
			t.Errorf("UsernameFormat(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
		}
	}
}

func TestMapTitle(t *testing.T) {
	if err := MapTitle("Causes of the French Revolution"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := MapTitle("   "); err == nil {
		t.Error("expected error for blank title")
	}
	if err := MapTitle(strings.Repeat("é", MaxTitleLength+1)); err == nil {
		t.Error("expected error for long title")
	}
}

func TestNodeIDErrorMentionsID(t *testing.T) {
	err := NodeIDFormat("Bad ID")
	if err == nil || !strings.Contains(err.Error(), "Bad ID") {
		t.Errorf("expected error mentioning the id, got %v", err)
	}
}
