package client

import (
	"sort"
	"strings"

	"github.com/go-http-utils/headers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func debugEnabled() bool {
	return zap.L().Core().Enabled(zapcore.DebugLevel)
}

// printRequestDebugInfo logs a curl equivalent of the call. The key is
// replaced by a reference to its environment variable.
func (c *Client) printRequestDebugInfo(endpoint string, body []byte, extra map[string]string) {
	if !debugEnabled() {
		return
	}

	sugar := zap.S()
	sugar.Debugf("\nGenerated cURL command:\n")
	sugar.Debugf("curl --location --request POST '%s' \\", endpoint)
	sugar.Debugf("  --header \"%s: %s${%s_API_KEY}\" \\", c.Config.AuthHeader, c.Config.AuthTokenPrefix, strings.ToUpper(c.Config.Name))
	sugar.Debugf("  --header '%s: %s' \\", headers.ContentType, "application/json")
	sugar.Debugf("  --header '%s: %s' \\", headers.UserAgent, c.Config.UserAgent)

	for _, k := range sortedKeys(c.Config.CustomHeaders) {
		sugar.Debugf("  --header '%s: %s' \\", k, c.Config.CustomHeaders[k])
	}
	for _, k := range sortedKeys(extra) {
		sugar.Debugf("  --header '%s: %s' \\", k, extra[k])
	}

	bodyString := strings.ReplaceAll(string(body), "'", "'\"'\"'")
	sugar.Debugf("  --data-raw '%s'", bodyString)
}

func (c *Client) printResponseDebugInfo(raw []byte) {
	if !debugEnabled() {
		return
	}

	sugar := zap.S()
	sugar.Debugf("\nResponse\n")
	sugar.Debugf("%s\n", raw)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
