package marshal

import (
	"github.com/wippyai/native-bridge/errors"
)

// Decode reads the first element of b as T. The result is an independent
// copy; b is not modified. Outside debug mode the block is trusted to be
// at least Layout().Size() bytes long.
func Decode[T any](b *Block, c FixedLayout[T]) (T, error) {
	var zero T
	if err := b.use(errors.PhaseDecode); err != nil {
		return zero, err
	}

	l := c.Layout()
	if b.mgr.debug {
		if err := b.Check(l, 1); err != nil {
			return zero, err
		}
	}

	data, err := b.mgr.space.Read(b.addr, l.Size())
	if err != nil {
		return zero, decodeErr(l, err)
	}
	return c.DecodeBytes(data), nil
}

// DecodeArray reads count consecutive elements of T starting at b's base
// address, striding by the native size. Element i equals what Decode would
// return for the sub-block at offset i*size. count 0 returns an empty
// slice without touching memory.
func DecodeArray[T any](b *Block, c FixedLayout[T], count int) ([]T, error) {
	if err := b.use(errors.PhaseDecode); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "negative element count")
	}
	if count == 0 {
		return []T{}, nil
	}

	l := c.Layout()
	if b.mgr.debug {
		if err := b.Check(l, count); err != nil {
			return nil, err
		}
	}

	stride := l.Size()
	total, ok := byteLen(stride, count)
	if !ok {
		return nil, errors.Overflow(errors.PhaseDecode, l.Name(), stride, count)
	}

	data, err := b.mgr.space.Read(b.addr, total)
	if err != nil {
		return nil, decodeErr(l, err)
	}

	out := make([]T, count)
	for i := range out {
		off := uint32(i) * stride
		out[i] = c.DecodeBytes(data[off : off+stride])
	}
	return out, nil
}

// ConsumeAndFree decodes the first element of b and then releases b. The
// release happens exactly once on every path, including a failed or
// panicking decode. b must not be used afterwards.
func ConsumeAndFree[T any](b *Block, c FixedLayout[T]) (v T, err error) {
	if err := b.use(errors.PhaseDecode); err != nil {
		return v, err
	}

	defer func() {
		if rerr := b.Release(); rerr != nil && err == nil {
			var zero T
			v, err = zero, rerr
		}
	}()

	return Decode(b, c)
}

// Encode writes v as the first element of b. This is the native writer's
// direction; the bridge itself only decodes. Sizes are always checked.
func Encode[T any](b *Block, c FixedLayout[T], v T) error {
	return EncodeArray(b, c, []T{v})
}

// EncodeArray writes vs as consecutive elements starting at b's base address.
func EncodeArray[T any](b *Block, c FixedLayout[T], vs []T) error {
	if err := b.use(errors.PhaseEncode); err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}

	l := c.Layout()
	if err := b.Check(l, len(vs)); err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Phase = errors.PhaseEncode
		}
		return err
	}

	stride := l.Size()
	buf := make([]byte, stride*uint32(len(vs)))
	for i, v := range vs {
		off := uint32(i) * stride
		c.EncodeBytes(buf[off:off+stride], v)
	}

	if err := b.mgr.space.Write(b.addr, buf); err != nil {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Type(l.Name()).
			Cause(err).
			Build()
	}
	return nil
}

func decodeErr(l *TypeLayout, cause error) error {
	return errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
		Type(l.Name()).
		Detail("read %d bytes", l.Size()).
		Cause(cause).
		Build()
}
