package pkgrouter

import (
	"reflect"
	"strings"
	"testing"
)

func TestInternalFrames(t *testing.T) {
	stack := strings.Join([]string{
		"goroutine 1 [running]:",
		"runtime/debug.Stack()",
		"\t/usr/local/go/src/runtime/debug/stack.go:26 +0x5e",
		"github.com/shandysiswandi/gotabular/internal/tabular/inbound.(*HTTPEndpoint).Upload(...)",
		"\t/src/gotabular/internal/tabular/inbound/http_endpoint.go:31 +0x1d",
		"\t/src/gotabular/internal/pkg/pkgrouter/router.go:140",
	}, "\n")

	want := []string{
		"internal/tabular/inbound/http_endpoint.go:31",
		"internal/pkg/pkgrouter/router.go:140",
	}
	if got := internalFrames(stack); !reflect.DeepEqual(got, want) {
		t.Fatalf("internalFrames() = %#v, want %#v", got, want)
	}
}
