package rod

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// ResourceType returns the protocol resource type for a name such as
// "Image" or "Font". Scripts cannot be blocked because the results are
// rendered client side.
func ResourceType(name string) (proto.NetworkResourceType, bool) {
	rt, ok := resourceTypes[name]
	return rt, ok
}

// blockResources refuses requests of the given types on page. It returns
// nil when there is nothing to block; otherwise the caller must Stop the
// returned router.
func blockResources(page *rod.Page, types []proto.NetworkResourceType) *rod.HijackRouter {
	if len(types) == 0 {
		return nil
	}
	blocked := make(map[proto.NetworkResourceType]struct{}, len(types))
	for _, rt := range types {
		blocked[rt] = struct{}{}
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, ok := blocked[ctx.Request.Type()]; ok {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
