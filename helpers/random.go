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

package helpers

import cryptorand "crypto/rand"

// GetRandomBytes returns requestedByteCount bytes of system randomness.  We
// read in smaller blocks and aggregate, so a very large request does not make
// one giant draw against the random source.
func GetRandomBytes(requestedByteCount int) (secretBytes []byte, err error) {
	const blockSize = 1000

	if requestedByteCount == 0 {
		return nil, nil
	}

	secretBytes = make([]byte, 0, requestedByteCount)

	bytesRead := 0
	for bytesRead < requestedByteCount {
		bytesToRead := requestedByteCount - bytesRead
		if bytesToRead > blockSize {
			bytesToRead = blockSize
		}

		blockBytes := make([]byte, bytesToRead)
		_, err = cryptorand.Read(blockBytes)
		if err != nil {
			return nil, err
		}

		secretBytes = append(secretBytes, blockBytes...)
		bytesRead += bytesToRead
	}

	return secretBytes, nil
}
