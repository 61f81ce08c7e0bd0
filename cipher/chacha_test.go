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
	"testing"

	"github.com/stretchr/testify/assert"
)

var chachaTestKey = make([]byte, 32)

// TestChaCha20RoundTrip runs an encrypt/decrypt cycle across several update
// calls.  Stream mode produces output byte for byte and finalize is empty.
func TestChaCha20RoundTrip(t *testing.T) {
	enc, err := NewCrypter(AlgorithmChaCha20, ModeEncrypt, chachaTestKey, nil)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, 1, enc.BlockSize())

	plaintext := []byte("stream mode has no padding at all")
	var ciphertext []byte
	for _, part := range [][]byte{plaintext[:10], plaintext[10:11], plaintext[11:]} {
		out, err := enc.Update(part)
		assert.Nil(t, err)
		assert.Equal(t, len(part), len(out))
		ciphertext = append(ciphertext, out...)
	}

	final, err := enc.Finalize()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(final))

	dec, err := NewCrypter(AlgorithmChaCha20, ModeDecrypt, chachaTestKey, nil)
	if !assert.Nil(t, err) {
		return
	}

	decrypted, err := dec.Update(ciphertext)
	assert.Nil(t, err)

	final, err = dec.Finalize()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(final))

	assert.Equal(t, plaintext, decrypted)
}

func TestChaCha20InvalidKey(t *testing.T) {
	_, err := NewCrypter(AlgorithmChaCha20, ModeEncrypt, []byte("short"), nil)
	assert.NotNil(t, err)
}

func TestChaCha20UseAfterFinalize(t *testing.T) {
	enc, err := NewCrypter(AlgorithmChaCha20, ModeEncrypt, chachaTestKey, nil)
	if !assert.Nil(t, err) {
		return
	}

	_, err = enc.Finalize()
	assert.Nil(t, err)

	_, err = enc.Update([]byte("straggler"))
	assert.NotNil(t, err)
}
