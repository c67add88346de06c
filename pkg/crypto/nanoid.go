package crypto

import (
	"crypto/rand"
	"math"
)

const (
	idAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	idSize     int    = 22 // 22 * 6 = 132 bits (uuid is 128 bits) of entropy
)

// idMask is the smallest bitmask covering the alphabet length.
func idMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return 255
}

// NewID generates a URL-safe random identifier with uniform character
// distribution (nanoid algorithm).
func NewID() (string, error) {
	alphabetLen := len(idAlphabet)
	mask := idMask(alphabetLen)
	step := int(math.Ceil(1.6 * float64(mask*idSize) / float64(alphabetLen)))

	id := make([]byte, idSize)
	buffer := make([]byte, step)

	for position := 0; position < idSize; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Map random bytes to alphabet characters, rejecting out-of-range
		// indexes so the distribution stays uniform.
		for i := 0; i < step && position < idSize; i++ {
			index := buffer[i] & byte(mask)
			if int(index) < alphabetLen {
				id[position] = idAlphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
