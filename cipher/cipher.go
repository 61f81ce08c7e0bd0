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

import "fmt"

// Mode indicates the direction a Crypter transforms its input.
type Mode int

const (
	ModeEncrypt Mode = iota
	ModeDecrypt
)

func ModeToText(mode Mode) string {
	switch mode {
	case ModeEncrypt:
		return "ENCRYPT"
	case ModeDecrypt:
		return "DECRYPT"
	default:
		return "ERROR: UNKNOWN MODE"
	}
}

// Algorithm selects the cipher construction a Crypter runs.
type Algorithm int

const (
	AlgorithmAESCBC Algorithm = iota
	AlgorithmChaCha20
)

// Crypter is the multi-part transform contract consumed by the stream
// adapters.  Update may be called any number of times and preserves the
// chaining state between calls.  Finalize is terminal: it may be called at
// most once, and no Update may follow it.  For block constructions, Finalize
// emits or strips the final padded block.
type Crypter interface {
	BlockSize() int
	Update(input []byte) (output []byte, err error)
	Finalize() (output []byte, err error)
}

// NewCrypter builds a Crypter for the requested algorithm and direction.
// Key and IV validation happens here, so a bad key never produces a partially
// usable Crypter.  The interface return allows callers to supply mocks, as
// well as other constructions in the future if we wish to.
func NewCrypter(alg Algorithm, mode Mode, key, iv []byte) (Crypter, error) {
	switch alg {
	case AlgorithmAESCBC:
		return NewAESCBCCrypter(mode, key, iv)
	case AlgorithmChaCha20:
		return NewChaCha20Crypter(mode, key, iv)
	default:
		return nil, fmt.Errorf("unknown cipher algorithm: %d", int(alg))
	}
}
