// Copyright 2024 The Cipherpipe Authors
//
// Use of this source code is governed by an MIT license that is located
// in this project's root folder, and can also be found online at:
//
// https://github.com/thoughtrealm/cipherpipe/LICENSE
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"errors"
	"fmt"
)

// AESCBCCrypter runs AES in CBC mode with PKCS#7 padding as a multi-part
// transform.  Update only ever transforms whole blocks; input that does not
// land on a block boundary is carried in the pending buffer until the next
// Update or Finalize.  On the decrypt side, the last full block is also
// withheld, since it cannot be released until Finalize knows it is the padded
// terminal block.
type AESCBCCrypter struct {
	mode      Mode
	blockMode stdcipher.BlockMode
	pending   []byte
	finalized bool
}

func NewAESCBCCrypter(mode Mode, key, iv []byte) (*AESCBCCrypter, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed setting up aes key: %w", err)
	}

	// A nil iv means the caller has no IV agreement in place, so use a
	// zero-value block.
	if iv == nil {
		iv = make([]byte, block.BlockSize())
	}

	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf(
			"invalid iv length: got %d bytes, expected %d",
			len(iv),
			block.BlockSize(),
		)
	}

	c := &AESCBCCrypter{mode: mode}
	switch mode {
	case ModeEncrypt:
		c.blockMode = stdcipher.NewCBCEncrypter(block, iv)
	case ModeDecrypt:
		c.blockMode = stdcipher.NewCBCDecrypter(block, iv)
	default:
		return nil, fmt.Errorf("unknown cipher mode: %d", int(mode))
	}

	return c, nil
}

func (c *AESCBCCrypter) BlockSize() int {
	return c.blockMode.BlockSize()
}

func (c *AESCBCCrypter) Update(input []byte) ([]byte, error) {
	if c.finalized {
		return nil, errors.New("update called after finalize")
	}

	data := append(c.pending, input...)

	// Determine how many trailing bytes must be withheld for later calls.
	// Encrypting holds back only the sub-block remainder.  Decrypting also
	// holds back the final full block, because it may turn out to be the
	// padded terminal block.
	hold := len(data) % c.BlockSize()
	if c.mode == ModeDecrypt && hold == 0 && len(data) > 0 {
		hold = c.BlockSize()
	}

	transformLen := len(data) - hold
	output := make([]byte, transformLen)
	if transformLen > 0 {
		c.blockMode.CryptBlocks(output, data[:transformLen])
	}

	c.pending = append(c.pending[:0], data[transformLen:]...)
	return output, nil
}

func (c *AESCBCCrypter) Finalize() ([]byte, error) {
	if c.finalized {
		return nil, errors.New("finalize called more than once")
	}
	c.finalized = true

	switch c.mode {
	case ModeEncrypt:
		// pending is always shorter than a block here, so the padded result
		// is exactly one block.
		padded := pkcs7Pad(c.pending, c.BlockSize())
		output := make([]byte, len(padded))
		c.blockMode.CryptBlocks(output, padded)
		c.pending = nil
		return output, nil
	default:
		if len(c.pending) != c.BlockSize() {
			return nil, fmt.Errorf(
				"ciphertext is not a whole number of blocks: %d trailing bytes",
				len(c.pending),
			)
		}

		decrypted := make([]byte, len(c.pending))
		c.blockMode.CryptBlocks(decrypted, c.pending)
		c.pending = nil

		output, err := pkcs7Unpad(decrypted, c.BlockSize())
		if err != nil {
			return nil, fmt.Errorf("failed removing padding: %w", err)
		}
		return output, nil
	}
}
