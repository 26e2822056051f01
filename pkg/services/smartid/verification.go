/*
 * Nuts co-sign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package smartid

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

// VerificationCode computes the 4 digit code shown to the user for the given hash:
// the last two bytes of SHA-256(hash) as an unsigned integer, modulo 10000.
func VerificationCode(hash []byte) string {
	digest := sha256.Sum256(hash)
	value := binary.BigEndian.Uint16(digest[len(digest)-2:])
	return fmt.Sprintf("%04d", int(value)%10000)
}

// RandomHash returns the SHA-512 hash of 64 random bytes, used as authentication challenge.
func RandomHash() ([]byte, error) {
	random := make([]byte, 64)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}
	digest := sha512.Sum512(random)
	return digest[:], nil
}
