// Package httpflow mounts the begin/callback handlers of every driver in a
// social.Registry onto a chi router.
//
// # Usage
//
//	registry := social.NewRegistry(github, google)
//
//	flow := httpflow.New(registry,
//		httpflow.OnUser(func(w http.ResponseWriter, r *http.Request, u *social.User) {
//			// create the application session, then redirect
//		}),
//		httpflow.OnError(func(w http.ResponseWriter, r *http.Request, err error) {
//			if errors.Is(err, social.ErrAccessDenied) {
//				http.Redirect(w, r, "/login?denied=1", http.StatusFound)
//				return
//			}
//			http.Error(w, "sign-in failed", http.StatusBadGateway)
//		}),
//	)
//
//	router.Mount("/auth", flow)
//
// GET /{provider} begins the flow, GET /{provider}/callback completes it.
// Unknown providers get a 404; a declined authorization reaches OnError as
// social.ErrAccessDenied so hosts can branch with errors.Is.
package httpflow
