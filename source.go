package streamxml

// ByteSource is the external collaborator a Cursor pulls bytes from. It is
// intentionally the smallest possible contract: Refill fills dst with up to
// len(dst) bytes and reports how many it wrote. A clean end-of-input is
// reported as (0, nil); a read failure is reported as (0, err) and is mapped
// by the Parser to ErrReadFailed.
//
// Refill may be called more than once during a single Next call. The source
// need not be seekable, only forward-only.
type ByteSource interface {
	Refill(dst []byte) (n int, err error)
}

// Sink is the external collaborator the convenience writers append item
// bytes to. channel is passed through unchanged from WriteItem/WriteElement;
// its interpretation (which underlying stream or file it selects) is
// entirely up to the Sink implementation.
type Sink interface {
	Write(data []byte, channel int) error
}
