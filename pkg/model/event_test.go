package model_test

import (
	"testing"

	"github.com/cu-events/events-api/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestEvent(t *testing.T) {
	t.Run("HasRSVP", func(t *testing.T) {
		e := model.Event{RSVP: []string{"u1", "u2"}}

		assert.True(t, e.HasRSVP("u2"))
		assert.False(t, e.HasRSVP("u3"))
		assert.Equal(t, 2, e.InterestedCount())
	})

	t.Run("CloneDoesNotShareRSVP", func(t *testing.T) {
		e := model.Event{ID: "e1", RSVP: []string{"u1"}}

		c := e.Clone()
		c.RSVP[0] = "u9"
		c.RSVP = append(c.RSVP, "u2")

		assert.Equal(t, []string{"u1"}, e.RSVP)
		assert.Equal(t, "e1", c.ID)
	})
}
