package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func readyCard() Card {
	prog := ProgrammingDone
	resp := ResponsivaSigned
	return Card{Status: CardStatusActive, ProgrammingStatus: &prog, ResponsivaStatus: &resp}
}

func pendingCard() Card {
	prog := ProgrammingPending
	resp := ResponsivaUnsigned
	return Card{Status: CardStatusActive, ProgrammingStatus: &prog, ResponsivaStatus: &resp}
}

func TestDisplayStatus(t *testing.T) {
	cases := []struct {
		name   string
		person Person
		want   string
	}{
		{"blocked wins over cards", Person{Status: PersonStatusBlocked, Cards: []Card{readyCard()}}, DisplayBloqueado},
		{"inactive is baja", Person{Status: PersonStatusInactive}, DisplayBaja},
		{"active without cards", Person{Status: PersonStatusActive}, DisplayInactivo},
		{"active with no ready card", Person{Status: PersonStatusActive, Cards: []Card{pendingCard()}}, DisplayInactivo},
		{"active with all cards ready", Person{Status: PersonStatusActive, Cards: []Card{readyCard(), readyCard()}}, DisplayActivo},
		{"active with some cards ready", Person{Status: PersonStatusActive, Cards: []Card{readyCard(), pendingCard()}}, DisplayParcial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.person.DisplayStatus())
		})
	}
}

func TestCardIsReady(t *testing.T) {
	card := readyCard()
	assert.True(t, card.IsReady())

	unsigned := ResponsivaUnsigned
	card.ResponsivaStatus = &unsigned
	assert.False(t, card.IsReady())

	card = readyCard()
	card.Status = CardStatusBlocked
	assert.False(t, card.IsReady())

	card = readyCard()
	card.ProgrammingStatus = nil
	assert.False(t, card.IsReady())
}
