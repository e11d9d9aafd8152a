// Package launcher locates the viewer application and its serving executable
// and builds the command line that starts them.
//
// Paths are resolved by an ordered list of strategies. Each fills only the
// fields still empty, so the first source to name a path wins:
//
//  1. <root>/etc/image_viewer_jupyter_proxy.json (keys app_path and
//     server_path, or the older panel_path)
//  2. the installed viewer package under <root>
//  3. panel on PATH, then <root>/bin/panel
//
// The root is $IMAGE_VIEWER_ROOT or the install prefix of the running binary.
//
//	r, err := launcher.DefaultResolver()
//	if err != nil {
//	    return err
//	}
//	paths, err := r.Resolve()
//	if errors.Is(err, launcher.ErrResolution) {
//	    // err.(*launcher.ResolutionError).Missing names the component
//	}
//	argv := launcher.BuildCommand(8080, paths, loc.Path)
package launcher
