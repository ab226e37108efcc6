package wordpress

// graphQuery is the combined tags and posts query. Both connections are
// paged with the same page size; a finished connection keeps its cursor.
const graphQuery = `
query PensieveGraph($first: Int!, $tagsAfter: String, $postsAfter: String) {
  tags(first: $first, after: $tagsAfter) {
    pageInfo { hasNextPage endCursor }
    nodes { name }
  }
  posts(first: $first, after: $postsAfter, where: { orderby: { field: DATE, order: DESC } }) {
    pageInfo { hasNextPage endCursor }
    nodes { id uri }
  }
}`

const articleFields = `
fragment ArticleFields on Post {
  id
  uri
  title
  date
  excerpt
  content
  tags { nodes { name } }
}`

const postQuery = `
query PostByID($id: ID!) {
  post(id: $id, idType: ID) { ...ArticleFields }
}` + articleFields

const postsByTagQuery = `
query PostsByTag($tag: [String], $first: Int!, $after: String) {
  tags(first: 1, where: { name: $tag }) {
    nodes {
      posts(first: $first, after: $after, where: { orderby: { field: DATE, order: DESC } }) {
        pageInfo { hasNextPage endCursor }
        nodes { ...ArticleFields }
      }
    }
  }
}` + articleFields

const recentPostsQuery = `
query RecentPosts($first: Int!, $after: String) {
  posts(first: $first, after: $after, where: { orderby: { field: DATE, order: DESC } }) {
    pageInfo { hasNextPage endCursor }
    nodes { ...ArticleFields }
  }
}` + articleFields

const tagIndexQuery = `
query TagIndex($first: Int!, $after: String) {
  tags(first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes { name count }
  }
}`
