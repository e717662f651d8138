// Package viewer is the public face of the point cloud renderer. A Viewer
// owns one window and draws colored points in it under a
// model/view/projection transform.
//
// A typical program locks the main goroutine to its OS thread, then:
//
//	if err := viewer.GlobalInit(); err != nil { ... }
//	defer viewer.GlobalCleanup()
//
//	v, err := viewer.New("Example Point Cloud")
//	if err != nil { ... }
//	defer v.Destroy()
//
//	v.SetPerspective(mgl32.DegToRad(45), 0.01, 10)
//	for !v.ShouldClose() {
//	    v.BeginFrame()
//	    v.RenderVertices(points)
//	    v.EndFrame()
//	    v.PollInput()
//	}
//
// The transform applied to each point is projection × view × camera × model,
// where camera is the interactive orbit (identity while controls are
// disabled or untouched).
package viewer
