package rabbitmq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
)

type fakeAck struct {
	acked  bool
	nacked bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(bool, bool) error {
	f.nacked = true
	return nil
}

func TestProcess(t *testing.T) {
	log := sl.NewDiscardLogger()

	t.Run("handler ok acks", func(t *testing.T) {
		ack := &fakeAck{}
		var got []byte
		process(log, []byte(`{"type":"donor.created"}`), ack, func(b []byte) error {
			got = b
			return nil
		})
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.JSONEq(t, `{"type":"donor.created"}`, string(got))
	})

	t.Run("handler error nacks", func(t *testing.T) {
		ack := &fakeAck{}
		process(log, []byte(`broken`), ack, func([]byte) error {
			return errors.New("bad payload")
		})
		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
	})
}
