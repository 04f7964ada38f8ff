/*
go-courtspeed estimates the speed and distance covered by players tracked
across the frames of a football video and overlays the results on the
frames.

Tracker results are first projected from image pixels onto real world pitch
coordinates using a fixed perspective transform calibrated from four
manually measured pitch corners.  Per player position histories are then
used to calculate a smoothed speed and cumulative distance, rejecting
implausible jumps caused by tracking noise and reusing the last good values
through gaps so the overlay does not flicker.

See example code and usage in the examples subdirectory.
*/
package courtspeed
