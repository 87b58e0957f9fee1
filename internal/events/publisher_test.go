package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher

	assert.NotPanics(t, func() {
		p.PublishImportCompleted("magasins", "session-1", 3)
		p.PublishPlanogramCreated("plano-001", "MAG001", 2, 12)
		p.Close()
	})
}

func TestDisconnectedPublisherIsSafe(t *testing.T) {
	p := &Publisher{}

	assert.NotPanics(t, func() {
		p.PublishImportCompleted("zones", "session-2", 1)
		p.Close()
	})
}
