package deck

import "testing"

func TestParseRank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Rank
		wantErr  bool
	}{
		{name: "digit", input: "7", expected: Seven},
		{name: "ten as 10", input: "10", expected: Ten},
		{name: "ten as T", input: "T", expected: Ten},
		{name: "lowercase ten", input: "t", expected: Ten},
		{name: "jack", input: "J", expected: Jack},
		{name: "lowercase ace", input: "a", expected: Ace},
		{name: "surrounding whitespace", input: " K ", expected: King},
		{name: "invalid rank", input: "X", wantErr: true},
		{name: "one", input: "1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := ParseRank(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRank(%q) expected error, got %v", tt.input, rank)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRank(%q) unexpected error: %v", tt.input, err)
			}
			if rank != tt.expected {
				t.Errorf("ParseRank(%q) = %v, want %v", tt.input, rank, tt.expected)
			}
		})
	}
}

func TestParseRanks(t *testing.T) {
	cards, err := ParseRanks("A, 10 k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []Rank{Ace, Ten, King}
	if len(cards) != len(expected) {
		t.Fatalf("expected %d cards, got %d", len(expected), len(cards))
	}
	for i, rank := range expected {
		if cards[i].Rank != rank {
			t.Errorf("card %d: expected %v, got %v", i, rank, cards[i].Rank)
		}
	}

	if _, err := ParseRanks("A,X"); err == nil {
		t.Error("expected error for invalid rank in list")
	}
}

func TestPointValue(t *testing.T) {
	tests := []struct {
		rank     Rank
		expected int
	}{
		{Two, 2},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
	}
	for _, tt := range tests {
		if got := tt.rank.PointValue(); got != tt.expected {
			t.Errorf("%v.PointValue() = %d, want %d", tt.rank, got, tt.expected)
		}
	}
}

func TestCardString(t *testing.T) {
	c := NewCard(Ten, Spades)
	if c.String() != "10♠" {
		t.Errorf("expected 10♠, got %s", c.String())
	}
	if NewCard(Ace, Hearts).String() != "A♥" {
		t.Errorf("expected A♥, got %s", NewCard(Ace, Hearts).String())
	}
}

func TestIsRed(t *testing.T) {
	if !NewCard(Five, Hearts).IsRed() {
		t.Error("hearts should be red")
	}
	if !NewCard(Five, Diamonds).IsRed() {
		t.Error("diamonds should be red")
	}
	if NewCard(Five, Spades).IsRed() {
		t.Error("spades should not be red")
	}
	if NewCard(Five, Clubs).IsRed() {
		t.Error("clubs should not be red")
	}
}
