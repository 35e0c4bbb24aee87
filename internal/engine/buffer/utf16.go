package buffer

// UTF16Len counts UTF-16 code units in a string.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2 // Surrogate pair (characters outside BMP)
		} else {
			n++
		}
	}
	return n
}

// UTF16ToByte converts a UTF-16 column to a byte offset within s.
// Columns past the end of s clamp to len(s). A column that falls inside a
// surrogate pair rounds down to the start of the rune.
func UTF16ToByte(s string, col int) int {
	if col <= 0 {
		return 0
	}
	var units int
	for i, r := range s {
		if units >= col {
			return i
		}
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if units+w > col {
			return i
		}
		units += w
	}
	return len(s)
}

// ByteToUTF16 converts a byte offset within s to a UTF-16 column.
func ByteToUTF16(s string, offset int) int {
	if offset > len(s) {
		offset = len(s)
	}
	if offset <= 0 {
		return 0
	}
	return UTF16Len(s[:offset])
}
