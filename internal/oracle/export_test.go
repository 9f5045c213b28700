// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package oracle

// ThinkingBudget exposes the profile budget mapping for tests.
var ThinkingBudget = Profile.thinkingBudget
