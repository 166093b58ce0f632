// Package packagist is a small client for the Packagist registry web API
// (https://packagist.org).
//
// The Client exposes four read-only operations, each a single GET request
// whose JSON response is returned as a generic tree (map[string]any, []any,
// json.Number, string, bool, nil) without projection onto typed structs:
//
//	client := packagist.NewClient(nil) // resty-backed HTTPAdapter
//
//	names, err := client.GetAllPackageNames(ctx, packagist.Params{}.Set("vendor", "composer"))
//	pkg, err := client.GetPackageByName(ctx, "monolog/monolog")
//	hits, err := client.SearchPackages(ctx, packagist.SearchQuery{Query: "monolog", PerPage: 5}.Params())
//	top, err := client.GetPopularPackages(ctx, packagist.PopularQuery{PerPage: 10}.Params())
//
// Network access goes through the Adapter interface, so tests and alternate
// HTTP stacks plug in with an AdapterFunc or their own implementation.
// Failed requests surface as *HTTPError carrying the HTTP status code and the
// "message" field of the error body.
//
// The client does not retry, cache, rate limit or follow pagination.
package packagist
