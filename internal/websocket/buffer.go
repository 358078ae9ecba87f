package websocket

import "sync"

// AudioBuffer accumulates binary audio fragments for one connection in
// arrival order until a flush drains them. Fragments are opaque encoded
// audio; format correctness is the client's responsibility.
type AudioBuffer struct {
	mu        sync.Mutex
	fragments [][]byte
	size      int
}

// NewAudioBuffer creates an empty audio buffer
func NewAudioBuffer() *AudioBuffer {
	return &AudioBuffer{}
}

// Append stores one fragment at the end of the sequence
func (b *AudioBuffer) Append(fragment []byte) {
	b.mu.Lock()
	b.fragments = append(b.fragments, fragment)
	b.size += len(fragment)
	b.mu.Unlock()
}

// Drain concatenates all buffered fragments in arrival order into one
// blob and clears the buffer. Draining an empty buffer returns nil.
func (b *AudioBuffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.fragments) == 0 {
		return nil
	}

	blob := make([]byte, 0, b.size)
	for _, fragment := range b.fragments {
		blob = append(blob, fragment...)
	}

	b.fragments = nil
	b.size = 0
	return blob
}

// Len returns the number of buffered fragments
func (b *AudioBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fragments)
}

// Size returns the total number of buffered bytes
func (b *AudioBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}
