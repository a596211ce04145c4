// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package hash

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
)

// scriptHashCacheCapacity is the number of script hashes retained. Scripts of
// deployed contracts are re-executed frequently, so the derived hash is worth
// keeping around.
const scriptHashCacheCapacity = 4096

var scriptHashCache *lru.Cache[Hash256, Hash160]

func init() {
	cache, err := lru.New[Hash256, Hash160](scriptHashCacheCapacity)
	if err != nil {
		panic(err) // can only fail for non-positive size
	}
	scriptHashCache = cache
}

// CachedHash160FromScript derives the identifying hash of a script like
// Hash160FromScript, serving repeated requests for the same script from an
// LRU cache. It is safe for concurrent use.
func CachedHash160FromScript(script []byte) Hash160 {
	digest := sha256.Sum256(script)
	if res, exists := scriptHashCache.Get(digest); exists {
		return res
	}
	res := RipeMD160(digest[:])
	scriptHashCache.Add(digest, res)
	return res
}
