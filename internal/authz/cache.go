// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package authz

import (
	"strings"
	"sync"
	"time"
)

// decisionCache memoizes enforcement results for a bounded TTL so the
// admin routes do not re-run the matcher on every request.
type decisionCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	items    map[string]cachedDecision
	stopChan chan struct{}
	stopOnce sync.Once
}

type cachedDecision struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &decisionCache{
		ttl:      ttl,
		items:    make(map[string]cachedDecision),
		stopChan: make(chan struct{}),
	}
	go c.janitor()
	return c
}

func cacheKey(subject, object, action string) string {
	return subject + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(subject, object, action string) (allowed, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[cacheKey(subject, object, action)]
	if !ok || time.Now().After(item.expiresAt) {
		return false, false
	}
	return item.allowed, true
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[cacheKey(subject, object, action)] = cachedDecision{
		allowed:   allowed,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// invalidateSubject drops every cached decision for one subject,
// called when its role grants change.
func (c *decisionCache) invalidateSubject(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := subject + "\x00"
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

func (c *decisionCache) janitor() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *decisionCache) stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
