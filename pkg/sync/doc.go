/*
The sync package implements pushsync's decision algorithm. It decides which
files in a local directory need to be pushed to the remote, and drives the
transfers for one reconciliation pass.

There are two views of a file:
1) LocalFiles -- Regular files directly inside the watched directory. Their
   metadata is read fresh from the filesystem every pass.
2) RemoteEntries -- The files the transfer tool reports in the remote
   directory. They're collected into a RemoteSnapshot once per pass, and
   every local file in that pass is compared against the same snapshot.

A local file is transferred if it's absent from the snapshot, or if its
modification time is strictly newer than the remote one. Both timestamps are
compared in UTC at one second granularity, so equal times never cause a
transfer.

The algorithm is one way. Files that only exist remotely are left alone, and
sub-directories of the watched directory aren't synced.
*/
package sync
