package testutil

// SampleBrief is a project brief with an out-of-scope section.
const SampleBrief = `# ORIGINAL BRIEF

## Project Metadata
| Field | Value |
|-------|-------|
| **Project ID** | ` + "`store-ai-auth`" + ` |
| **Project Name** | Store AI Authentication |

## The Problem
Users currently have no way to securely access the store AI server.

## The Solution
Simple JWT-based authentication with local SQLite storage.

## Scope
### In Scope
- User registration
- Login/logout
- JWT tokens

### Out of Scope
- OAuth
- Role-based permissions
- Password reset via email
`

// SampleBriefNoExclusions is a brief without an out-of-scope section.
const SampleBriefNoExclusions = `# ORIGINAL BRIEF

Build a local JWT login flow. Email confirmation and OAuth are welcome later.
`

// ArchitectHandoff is a complete architect handoff to the implementer.
// It validates without errors or warnings.
const ArchitectHandoff = `handoff:
  from_agent: architect
  to_agent: implementer
  timestamp: 2026-01-25T20:00:00Z
  task_id: store-ai-auth

  summary:
    what_was_done: |
      Designed authentication system for store AI server.
      JWT-based auth with local SQLite storage.
    decisions_made:
      - decision: Use JWT for auth
        rationale: Stateless, scales well, simple to implement
        alternatives_rejected:
          - Session cookies - requires session store
    current_state:
      files_created:
        - /docs/auth-architecture.md
      files_modified: []

  context_for_next_agent:
    must_know:
      - Auth is local only
      - Max 50 users
    original_intent: |
      Build simple, secure authentication for the store AI server POC.
      Local only, no external dependencies, privacy-first.
    scope_boundaries:
      in_scope:
        - User registration
        - Login/logout
      out_of_scope:
        - Role-based permissions
        - OAuth

  architecture:
    overview: Simple JWT auth with SQLite backend.
    components:
      - name: auth-service
        purpose: Handle registration and login

  status:
    completion: complete

  next_steps:
    implementation_order:
      - priority: 1
        task: JWT middleware
      - priority: 2
        task: Register endpoint
    warnings:
      - Don't add roles yet

  verification:
    how_to_verify: Can register, login, and access protected endpoints.
`

// ImplementerToSecurityHandoff is a complete implementer handoff to security.
const ImplementerToSecurityHandoff = `from_agent: implementer
to_agent: security
task_id: store-ai-auth
summary:
  what_was_done: Implemented the JWT middleware, register and login endpoints.
  decisions_made:
    - decision: Hash passwords with argon2id
      rationale: Memory-hard and the current recommendation
  current_state:
    files_created:
      - src/auth/middleware.ts
      - src/auth/routes.ts
context_for_next_agent:
  must_know:
    - Tokens expire after one hour
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
implementation:
  key_files:
    - src/auth/middleware.ts
    - src/auth/routes.ts
security_context:
  user_inputs:
    - POST /register body (username, password)
    - POST /login body (username, password)
    - Authorization header
status:
  completion: complete
next_steps:
  - Review token signing and password storage
verification:
  how_to_verify: Run npm test and call the endpoints with curl.
`

// ImplementerToTesterHandoff is a complete implementer handoff to the tester.
const ImplementerToTesterHandoff = `from_agent: implementer
to_agent: tester
task_id: store-ai-auth
summary:
  what_was_done: Implemented the JWT middleware, register and login endpoints.
  decisions_made:
    - decision: Return 401 for expired tokens
      rationale: Clients re-authenticate on 401
  current_state: Endpoints implemented and unit tested.
context_for_next_agent:
  must_know:
    - Tokens expire after one hour
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
implementation:
  key_files: [src/auth/routes.ts]
testing_context:
  what_to_test:
    - Registration rejects duplicate usernames
    - Expired tokens are rejected
status:
  completion: complete
next_steps:
  - Write integration tests for the auth flow
verification:
  how_to_verify_implementation: npm test
`

// SecurityHandoff is a complete security review handoff to the tester.
const SecurityHandoff = `from_agent: security
to_agent: tester
task_id: store-ai-auth
summary:
  what_was_done: Reviewed token signing, password storage and input validation.
  decisions_made:
    - decision: Accept HS256 signing
      rationale: Single service, secret never leaves the host
  current_state: Review complete with one low finding.
  overall_assessment: approved_with_conditions
  risk_level: low
findings:
  low:
    - id: SEC-1
      description: Login responses differ in timing for unknown users
context_for_next_agent:
  must_know:
    - SEC-1 is accepted for the POC
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
status:
  completion: complete
next_steps:
  - Cover SEC-1 with a regression test
verification:
  how_to_verify: Re-run the review checklist against the fixed build.
`

// TesterHandoff is a complete tester handoff to devops with a classified bug.
const TesterHandoff = `from_agent: tester
to_agent: devops
task_id: store-ai-auth
summary:
  what_was_done: Ran unit and integration tests for registration and login.
  decisions_made:
    - decision: Skip load testing
      rationale: Max 50 users
  current_state: All suites green except one low bug.
context_for_next_agent:
  must_know:
    - BUG-1 is cosmetic
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
test_results:
  summary:
    passed: 41
    failed: 0
bugs:
  low:
    - bug_id: BUG-1
      title: Error message casing
      classification: bug
status:
  completion: complete
next_steps:
  - Deploy to the store server
verification:
  how_to_verify: npm run test:all
`

// DevOpsHandoff is a final devops handoff with no next agent.
const DevOpsHandoff = `from_agent: devops
task_id: store-ai-auth
summary:
  what_was_done: Deployed the auth service to the store server.
  decisions_made:
    - decision: Run as a systemd unit
      rationale: Matches the other store services
  current_state: Version 1.0.0 running on store-01.
context_for_next_agent:
  must_know:
    - Logs are in journald
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
deployment:
  target: store-01
  version: 1.0.0
rollback:
  plan: systemctl stop auth && reinstall the previous package
status:
  completion: complete
next_steps:
  - None, project complete
verification:
  how_to_verify: curl https://store-01/health returns ok
`

// BlockedHandoff is an implementer handoff blocked on a human decision.
const BlockedHandoff = `from_agent: implementer
to_agent: architect
task_id: store-ai-auth
summary:
  what_was_done: Started the register endpoint.
  decisions_made:
    - decision: Stop before choosing a token lifetime
      rationale: The brief does not say
  current_state: Register endpoint half done.
context_for_next_agent:
  must_know:
    - Token lifetime is undecided
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
implementation:
  key_files: [src/auth/routes.ts]
status:
  completion: blocked
  if_blocked:
    blocker: Token lifetime not specified
    needs_from: human
    unblock_criteria: A token lifetime is chosen
next_steps:
  - Finish register once unblocked
verification:
  how_to_verify: Not yet verifiable
`

// PartialHandoff is an implementer handoff that stopped part way.
const PartialHandoff = `from_agent: implementer
to_agent: implementer
task_id: store-ai-auth
summary:
  what_was_done: Implemented the register endpoint.
  decisions_made:
    - decision: Validate usernames server side
      rationale: Clients are untrusted
  current_state: Register done, login not started.
context_for_next_agent:
  must_know:
    - Login is next
  original_intent: Build simple, secure authentication for the store AI server POC.
  scope_boundaries:
    in_scope: [Registration, Login, JWT]
    out_of_scope: [OAuth, Roles]
implementation:
  key_files: [src/auth/routes.ts]
status:
  completion: partial
  if_partial:
    remaining_work:
      - Login endpoint
    why_stopping: Context budget exhausted
next_steps:
  - Implement login
verification:
  how_to_verify: npm test
`
