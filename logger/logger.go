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

/*
	This is a really basic logger.  It suffices for the basic need of emitting
	debug output from the stream adapters.  Possibly, we will need something
	more sophisticated at some point.
*/

package logger

import (
	"fmt"
	"os"
	"time"
)

var (
	LogDebug = false
	LogTime  = false

	debugoutTarget = os.Stdout
	stderrTarget   = os.Stderr
)

func buildDebugPrefix() string {
	if !LogTime {
		return "DEBUG: "
	}

	timeFormatted := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("DEBUG  %s : ", timeFormatted)
}

func outputLn(target *os.File, prefix, text string) {
	_, _ = fmt.Fprintln(target, prefix+text)
}

func Debug(text string) {
	if !LogDebug {
		return
	}

	outputLn(debugoutTarget, buildDebugPrefix(), text)
}

func Debugf(format string, a ...any) {
	if !LogDebug {
		return
	}

	outputLn(debugoutTarget, buildDebugPrefix(), fmt.Sprintf(format, a...))
}

// Error ALWAYS PRINTS
func Error(text string) {
	outputLn(stderrTarget, "", text)
}

// Errorf ALWAYS PRINTS
func Errorf(format string, a ...any) {
	outputLn(stderrTarget, "", fmt.Sprintf(format, a...))
}
