// Package testutil holds test helpers for featurekit holders and
// components.
//
// Feature holders are process-wide, so tests that install providers must
// reset them afterwards:
//
//	func TestLogin(t *testing.T) {
//	    testutil.ResetOnCleanup(t, datastore.Entry(), login.Entry())
//	    ...
//	}
package testutil
