package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// FailureDelay pads failed logins to a minimum duration plus jitter so
// unknown accounts and wrong passwords are indistinguishable by timing
type FailureDelay struct {
	Base   time.Duration
	Jitter time.Duration
	sleep  func(time.Duration)
}

func NewFailureDelay(base, jitter time.Duration) *FailureDelay {
	return &FailureDelay{Base: base, Jitter: jitter, sleep: time.Sleep}
}

// WaitFrom sleeps until at least Base+rand(Jitter) has elapsed since start
func (d *FailureDelay) WaitFrom(start time.Time) {
	if d == nil {
		return
	}

	target := d.Base + cryptoJitter(d.Jitter)
	if elapsed := time.Since(start); elapsed < target {
		d.sleep(target - elapsed)
	}
}

func cryptoJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(b[:]) % uint64(max))
}
