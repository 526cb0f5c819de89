// Package searchparams provides Params, an ordered multi-map of query
// string pairs.
//
// Params keeps duplicate keys in insertion order and re-serializes in
// the application/x-www-form-urlencoded style (space as "+"):
//
//	p, _ := searchparams.New("b=2&a=1&a=3")
//	p.Append("a b", "c+d")
//	p.Sort()
//	p.String() // "a=1&a=3&a+b=c%2Bd&b=2"
//
// A Params may have a single update subscriber registered with OnUpdate.
// Every mutation (Append, Delete, DeleteValue, Set, Sort, SortCollated,
// Replace) calls it synchronously with the freshly serialized string;
// this is how a weburl.URL keeps its search component in step with its
// SearchParams. A Params built with New has no subscriber.
//
// Params is not safe for concurrent use.
package searchparams
