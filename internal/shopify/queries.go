package shopify

// MaxPageSize is the largest `first:` the Admin API accepts.
const MaxPageSize = 250

const definitionByTypeQuery = `
query DefinitionByType($type: String!) {
  metaobjectDefinitionByType(type: $type) {
    id
    name
    type
  }
}`

const definitionCreateMutation = `
mutation metaobjectDefinitionCreate($definition: MetaobjectDefinitionCreateInput!) {
  metaobjectDefinitionCreate(definition: $definition) {
    metaobjectDefinition {
      id
      name
      type
    }
    userErrors {
      field
      message
    }
  }
}`

const metaobjectFields = `
      id
      displayName
      fields {
        key
        value
      }`

const metaobjectQuery = `
query Metaobject($id: ID!) {
  metaobject(id: $id) {` + metaobjectFields + `
  }
}`

const metaobjectsQuery = `
query Metaobjects($type: String!, $first: Int!) {
  metaobjects(type: $type, first: $first) {
    nodes {` + metaobjectFields + `
    }
  }
}`

const metaobjectCreateMutation = `
mutation metaobjectCreate($metaobject: MetaobjectCreateInput!) {
  metaobjectCreate(metaobject: $metaobject) {
    metaobject {` + metaobjectFields + `
    }
    userErrors {
      field
      message
    }
  }
}`

const metaobjectUpdateMutation = `
mutation metaobjectUpdate($id: ID!, $metaobject: MetaobjectUpdateInput!) {
  metaobjectUpdate(id: $id, metaobject: $metaobject) {
    metaobject {` + metaobjectFields + `
    }
    userErrors {
      field
      message
    }
  }
}`

const metaobjectDeleteMutation = `
mutation metaobjectDelete($id: ID!) {
  metaobjectDelete(id: $id) {
    deletedId
    userErrors {
      field
      message
    }
  }
}`

const customersQuery = `
query Customers($first: Int!, $query: String) {
  customers(first: $first, query: $query) {
    nodes {
      id
      displayName
      firstName
      lastName
      email
      tags
      amountSpent {
        amount
        currencyCode
      }
      numberOfOrders
    }
  }
}`

const customerCreateMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer {
      id
      email
      tags
    }
    userErrors {
      field
      message
    }
  }
}`

const tagsAddMutation = `
mutation tagsAdd($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    node {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const tagsRemoveMutation = `
mutation tagsRemove($id: ID!, $tags: [String!]!) {
  tagsRemove(id: $id, tags: $tags) {
    node {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const codeDiscountFields = `
      id
      codeDiscount {
        ... on DiscountCodeBasic {
          title
          status
          codes(first: 1) {
            nodes {
              code
            }
          }
        }
      }`

const codeDiscountsQuery = `
query CodeDiscounts($first: Int!, $query: String) {
  codeDiscountNodes(first: $first, query: $query) {
    nodes {` + codeDiscountFields + `
    }
  }
}`

const codeDiscountByCodeQuery = `
query CodeDiscountByCode($code: String!) {
  codeDiscountNodeByCode(code: $code) {` + codeDiscountFields + `
  }
}`

const discountCreateMutation = `
mutation discountCodeBasicCreate($basicCodeDiscount: DiscountCodeBasicInput!) {
  discountCodeBasicCreate(basicCodeDiscount: $basicCodeDiscount) {
    codeDiscountNode {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const discountUpdateMutation = `
mutation discountCodeBasicUpdate($id: ID!, $basicCodeDiscount: DiscountCodeBasicInput!) {
  discountCodeBasicUpdate(id: $id, basicCodeDiscount: $basicCodeDiscount) {
    codeDiscountNode {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const discountDeleteMutation = `
mutation discountCodeDelete($id: ID!) {
  discountCodeDelete(id: $id) {
    deletedCodeDiscountId
    userErrors {
      field
      message
    }
  }
}`
