// Package catalog reads the public manga catalog from the backend.
//
// The backend serves two record shapes. The primary one uses "_id", "name",
// "thumb_url" and "content"; the fallback one uses "id", "title", "image" and
// "description". Normalize folds both into Entry. The Service fetch
// wrappers never return errors: a failed request is logged and becomes an
// empty Result or a nil record, so callers always have something to render.
package catalog
