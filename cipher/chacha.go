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
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// ChaCha20Crypter runs the ChaCha20 stream construction as a multi-part
// transform.  Stream mode has no padding, so the block size is 1 and Finalize
// emits nothing.  Note this is the unauthenticated stream: this layer only
// sequences the confidentiality transform, integrity belongs to the caller.
type ChaCha20Crypter struct {
	stream    *chacha20.Cipher
	finalized bool
}

func NewChaCha20Crypter(mode Mode, key, iv []byte) (*ChaCha20Crypter, error) {
	if mode != ModeEncrypt && mode != ModeDecrypt {
		return nil, fmt.Errorf("unknown cipher mode: %d", int(mode))
	}

	if iv == nil {
		iv = make([]byte, chacha20.NonceSize)
	}

	// Encrypt and decrypt are the same XOR transform, so the mode only
	// matters for the caller's intent.
	stream, err := chacha20.NewUnauthenticatedCipher(key, iv)
	if err != nil {
		return nil, fmt.Errorf("failed setting up chacha20 key: %w", err)
	}

	return &ChaCha20Crypter{stream: stream}, nil
}

func (c *ChaCha20Crypter) BlockSize() int {
	return 1
}

func (c *ChaCha20Crypter) Update(input []byte) ([]byte, error) {
	if c.finalized {
		return nil, errors.New("update called after finalize")
	}

	output := make([]byte, len(input))
	c.stream.XORKeyStream(output, input)
	return output, nil
}

func (c *ChaCha20Crypter) Finalize() ([]byte, error) {
	if c.finalized {
		return nil, errors.New("finalize called more than once")
	}
	c.finalized = true
	return nil, nil
}
