/*Package interval implements the interval algebra behind stratification
  comparison: loading BED entries, collapsing each set of entries into a
  per-chromosome interval-union, and partitioning the union of two such sets
  into regions of constant coverage.

  Coordinates are 0-based and half-open.  Every position must fit in a
  PosType, which is currently int32 since that's what BAM files are limited
  to, and all reference genomes we care about fit comfortably.
*/
package interval
