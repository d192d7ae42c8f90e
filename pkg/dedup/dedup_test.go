package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcessDropsRedelivery(t *testing.T) {
	d := New(time.Minute, 100)
	id := Key([]byte(`{"unit_id":"42"}`))

	assert.True(t, d.ShouldProcess(id))
	assert.False(t, d.ShouldProcess(id))
	assert.False(t, d.ShouldProcess(id))
}

func TestShouldProcessExpiresAfterTTL(t *testing.T) {
	d := New(10*time.Millisecond, 100)
	id := Key([]byte("payload"))

	assert.True(t, d.ShouldProcess(id))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, d.ShouldProcess(id))
}

func TestEmptyIDAlwaysProcessed(t *testing.T) {
	d := New(time.Minute, 100)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key([]byte("abc")), Key([]byte("abc")))
	assert.NotEqual(t, Key([]byte("abc")), Key([]byte("abd")))
}
