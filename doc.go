/*
go-autoaim is the perception to aim core of a robotic targeting pipeline.

It decodes the raw output tensor of an armor plate detection network into
oriented quadrilateral detections, tracks a single spinning target body across
frames with an Extended Kalman Filter, and solves the ballistic pitch and yaw
needed to hit the armor plate facing the launcher.

The packages are arranged leaf first:

  - geometry: polygon areas, angle normalisation and rotation conversions
  - preprocess: letterbox resizing and its inverse transform
  - postprocess: tensor decoding, non-maximum suppression and corner fusion
  - tracker: the EKF, lifecycle state machine and armor jump handling
  - solver: the air resistance trajectory solver
  - render: debug drawing of detected armors on the source frame

This package joins them: Node handles the per frame armor and muzzle speed
messages, Pipeline runs detection, pose estimation and tracking for a stream of
frames, and FrameQueue hands frames from the camera to the pipeline.

Camera capture, network inference and pose estimation are left to the caller.
See example code and usage in the example subdirectory.
*/
package autoaim
