package guest

// arena is a module with one page of memory and a bump allocator:
//
//	(global $top (mut i32) (i32.const 1024))
//	(func (export "malloc") (param $n i32) (result i32) (local $p i32)
//	  global.get $top  local.set $p
//	  local.get $p  local.get $n  i32.add
//	  memory.size  i32.const 16  i32.shl
//	  i32.gt_u  if  i32.const 0  return  end
//	  local.get $p  local.get $n  i32.add  global.set $top
//	  local.get $p)
//	(func (export "free") (param i32))
var arena = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type
	0x01, 0x0a, 0x02, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x01, 0x7f, 0x00,
	// function
	0x03, 0x03, 0x02, 0x00, 0x01,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b,
	// export
	0x07, 0x1a, 0x03,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x06, 'm', 'a', 'l', 'l', 'o', 'c', 0x00, 0x00,
	0x04, 'f', 'r', 'e', 'e', 0x00, 0x01,
	// code
	0x0a, 0x27, 0x02,
	0x22, 0x01, 0x01, 0x7f,
	0x23, 0x00, 0x21, 0x01,
	0x20, 0x01, 0x20, 0x00, 0x6a,
	0x3f, 0x00, 0x41, 0x10, 0x74,
	0x4b, 0x04, 0x40, 0x41, 0x00, 0x0f, 0x0b,
	0x20, 0x01, 0x20, 0x00, 0x6a, 0x24, 0x00,
	0x20, 0x01, 0x0b,
	0x02, 0x00, 0x0b,
}

// ArenaBase is the first address the arena module hands out.
const ArenaBase = 1024

// ArenaModule returns the binary of a module exporting one page of memory
// and a bump allocator. free is a no-op, and malloc returns 0 once the page
// is exhausted.
func ArenaModule() []byte {
	return append([]byte(nil), arena...)
}
